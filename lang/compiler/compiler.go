// Package compiler lowers a parsed Lua chunk to a bytecode.Module: it walks
// the AST into lang/ir basic blocks using lang/pool for constants and
// lang/regmap for register allocation, resolves upvalue chains across
// nested function literals, substitutes IR phis, and flattens the result
// into fixed-width instructions.
package compiler

import (
	"fmt"

	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/ir"
	"github.com/mna/luma/lang/pool"
	"github.com/mna/luma/lang/token"
)

// envUpvalSlot is the upvalue slot every function's _ENV table is bound to.
// The VM binds it automatically on every Closure (and for the top-level
// function, at startup), so the compiler never provides it explicitly: free
// identifiers always lower to GetUpAttr/SetUpAttr against this slot.
const envUpvalSlot = 0

// LimitError reports that a function needs 256 or more registers: the
// bytecode format's 8-bit register operands require every function's
// register count to stay below 256.
type LimitError struct {
	FuncIndex int
	RegCount  int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("compiler: function %d uses %d registers, reaching the 256-register limit", e.FuncIndex, e.RegCount)
}

// compileError is panicked by the lowering methods on an unsupported
// construct or an internal invariant violation, and recovered in Compile,
// mirroring the parser's errPanicMode/recover discipline.
type compileError struct {
	pos token.Pos
	msg string
}

func (e *compileError) Error() string { return e.msg }

func fail(pos token.Pos, format string, args ...interface{}) {
	panic(&compileError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

// compiler holds the state shared across every function lowered from one
// chunk: the constant pool and the flat, discovery-ordered list of
// functions that becomes the module's function table.
type compiler struct {
	pool  *pool.Pool
	funcs []*ir.Func
}

// newFunc allocates an IR function, assigns it the next module-level index,
// and registers it in c.funcs.
func (c *compiler) newFunc(paramCount int, isVararg bool) *ir.Func {
	fn := ir.NewFunc(len(c.funcs), paramCount, isVararg)
	c.funcs = append(c.funcs, fn)
	return fn
}

// funcCompiler holds the per-function lowering state: which IR function and
// block it is writing to, its enclosing function (for upvalue resolution),
// and the jump-patch bookkeeping for break statements.
type funcCompiler struct {
	c        *compiler
	fn       *ir.Func
	parent   *funcCompiler
	childIdx int // this func's index in parent.fn.Children; -1 for the top-level function

	block int // index into fn.Blocks currently being appended to

	upvalSlots map[string]int // name -> upvalue slot, lazily assigned
	nextUpval  int            // slot 0 is reserved for _ENV (bound implicitly by the VM)

	loopExits []int // stack of enclosing loops' exit block indices, innermost last; break jumps to the top
}

// Compile lowers chunk (from file) to a complete bytecode module. The chunk
// is treated as the body of an implicit vararg top-level function.
func Compile(file *token.File, chunk *ast.Chunk) (mod *bytecode.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*compileError); ok {
				line, col := file.Position(ce.pos)
				err = fmt.Errorf("%s:%d:%d: %s", file.Name(), line, col, ce.msg)
				return
			}
			panic(r)
		}
	}()

	c := &compiler{pool: pool.New()}
	top := c.newFunc(0, true)
	fc := &funcCompiler{c: c, fn: top, childIdx: -1, upvalSlots: make(map[string]int), nextUpval: 1}
	fc.fn.RegMap.PushBlock()
	fc.block = fc.fn.CreateBlock()

	fc.lowerBlock(chunk.Block)
	fc.emitReturn(nil)
	fc.fn.RegMap.PopBlock()

	for _, fn := range c.funcs {
		ir.SubstitutePhis(fn)
		if fn.RegCount() >= 256 {
			return nil, &LimitError{FuncIndex: fn.Index, RegCount: fn.RegCount()}
		}
	}

	frozen, err := pool.Freeze(c.pool)
	if err != nil {
		return nil, err
	}

	funcs := make([]*bytecode.Function, len(c.funcs))
	for i, fn := range c.funcs {
		funcs[i] = flatten(fn)
	}

	return &bytecode.Module{
		Ints:      frozen.Ints,
		Floats:    frozen.Floats,
		Strings:   frozen.Strings,
		Functions: funcs,
		Main:      0,
	}, nil
}

// curBlock returns the basic block currently being appended to.
func (fc *funcCompiler) curBlock() *ir.BasicBlock { return fc.fn.Block(fc.block) }

// setCurrent switches which block subsequent emit calls append to.
func (fc *funcCompiler) setCurrent(block int) { fc.block = block }

// newReg allocates a fresh, unnamed register in the current function.
func (fc *funcCompiler) newReg() int { return fc.fn.RegMap.NewReg() }

func (fc *funcCompiler) emit(op bytecode.Opcode, args ...ir.Arg) {
	fc.curBlock().Push(ir.Real(op), args...)
}

// emitJump appends a jump instruction targeting IR block blockTarget; the
// target is carried as a Some arg (a block index) until flatten resolves it
// to a real pc-relative displacement.
func (fc *funcCompiler) emitJump(op bytecode.Opcode, reg int, blockTarget int) {
	fc.curBlock().Push(ir.Real(op), ir.RegArg(reg), ir.SomeArg(blockTarget))
}

func (fc *funcCompiler) emitPhi(dst int, srcs ...int) {
	args := make([]ir.Arg, 0, len(srcs)+1)
	args = append(args, ir.RegArg(dst))
	for _, s := range srcs {
		args = append(args, ir.RegArg(s))
	}
	fc.curBlock().Push(ir.Phi, args...)
}

// internName interns name as a string constant and loads it into a fresh
// register, returning that register. Used for attribute-access key operands.
func (fc *funcCompiler) internName(name string) int {
	idx := fc.c.pool.InternStr(name)
	r := fc.newReg()
	fc.emit(bytecode.LDS, ir.RegArg(r), ir.SomeArg(idx))
	return r
}
