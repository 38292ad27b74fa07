package compiler

import (
	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/ir"
	"github.com/mna/luma/lang/token"
)

// nameKind identifies where resolveName found a free identifier.
type nameKind int

const (
	nameLocal nameKind = iota
	nameUpval
	nameGlobal
)

type nameRef struct {
	kind nameKind
	reg  int // for nameLocal
	slot int // for nameUpval
}

// resolveName looks up name in the current function's own register map,
// then walks the enclosing-function chain for a captured upvalue, falling
// back to a global (an attribute of _ENV) when neither finds it.
func (fc *funcCompiler) resolveName(name string) nameRef {
	if r, ok := fc.fn.RegMap.GetReg(name); ok {
		return nameRef{kind: nameLocal, reg: r}
	}
	if slot, ok := fc.resolveUpval(name); ok {
		return nameRef{kind: nameUpval, slot: slot}
	}
	return nameRef{kind: nameGlobal}
}

// resolveUpval finds name in some ancestor function's locals (or in an
// ancestor's own upvalues), allocating an upvalue slot in every function
// along the path and recording the (source, slot) chain in each parent's
// provides map, per spec.md's upvalue-flow algorithm.
func (fc *funcCompiler) resolveUpval(name string) (int, bool) {
	if fc.parent == nil {
		return 0, false
	}
	if slot, ok := fc.upvalSlots[name]; ok {
		return slot, true
	}
	if preg, ok := fc.parent.fn.RegMap.GetReg(name); ok {
		slot := fc.allocUpval(name)
		fc.parent.fn.AddProvider(fc.childIdx, ir.RegSource(preg), slot)
		return slot, true
	}
	if pslot, ok := fc.parent.resolveUpval(name); ok {
		slot := fc.allocUpval(name)
		fc.parent.fn.AddProvider(fc.childIdx, ir.UpvalSource(pslot), slot)
		return slot, true
	}
	return 0, false
}

func (fc *funcCompiler) allocUpval(name string) int {
	slot := fc.nextUpval
	fc.nextUpval++
	fc.upvalSlots[name] = slot
	return slot
}

// readIdent returns a register holding the value of name: a local's own
// register, or a fresh register loaded from an upvalue slot or from _ENV.
func (fc *funcCompiler) readIdent(name string) int {
	switch ref := fc.resolveName(name); ref.kind {
	case nameLocal:
		return ref.reg
	case nameUpval:
		dst := fc.newReg()
		fc.emit(bytecode.GETUPVAL, ir.RegArg(dst), ir.SomeArg(ref.slot))
		return dst
	default: // nameGlobal
		nameReg := fc.internName(name)
		dst := fc.newReg()
		fc.emit(bytecode.GETUPATTR, ir.RegArg(dst), ir.SomeArg(envUpvalSlot), ir.RegArg(nameReg))
		return dst
	}
}

// writeIdent lowers a write of srcReg to a free identifier.
func (fc *funcCompiler) writeIdent(name string, srcReg int) {
	switch ref := fc.resolveName(name); ref.kind {
	case nameLocal:
		fc.emit(bytecode.MOV, ir.RegArg(ref.reg), ir.RegArg(srcReg))
	case nameUpval:
		fc.emit(bytecode.SETUPVAL, ir.SomeArg(ref.slot), ir.RegArg(srcReg))
	default: // nameGlobal
		nameReg := fc.internName(name)
		fc.emit(bytecode.SETUPATTR, ir.SomeArg(envUpvalSlot), ir.RegArg(nameReg), ir.RegArg(srcReg))
	}
}

// loadInt materializes the integer constant v into register dst.
func (fc *funcCompiler) loadInt(dst int, v int64) {
	idx := fc.c.pool.InternInt(v)
	fc.emit(bytecode.LDI, ir.RegArg(dst), ir.SomeArg(idx))
}

var arithOps = map[token.Token]bytecode.Opcode{
	token.PLUS:       bytecode.ADD,
	token.MINUS:      bytecode.SUB,
	token.STAR:       bytecode.MUL,
	token.SLASH:      bytecode.DIV,
	token.SLASHSLASH: bytecode.FDIV,
	token.PERCENT:    bytecode.MOD,
	token.CIRCUMFLEX: bytecode.EXP,
}

var compareOps = map[token.Token]bytecode.Opcode{
	token.LT:   bytecode.LT,
	token.GT:   bytecode.GT,
	token.GE:   bytecode.GE,
	token.LE:   bytecode.LE,
	token.EQEQ: bytecode.EQ,
	token.NE:   bytecode.NE,
}

// lowerExprSingle lowers e into exactly one register holding its (first, for
// a multi-valued expression) value.
func (fc *funcCompiler) lowerExprSingle(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return fc.lowerLiteral(n)
	case *ast.IdentExpr:
		return fc.readIdent(n.Lit)
	case *ast.ParenExpr:
		return fc.lowerExprSingle(n.Expr)
	case *ast.BinOpExpr:
		return fc.lowerBinOp(n)
	case *ast.UnaryOpExpr:
		return fc.lowerUnaryOp(n)
	case *ast.DotExpr:
		prefix := fc.lowerExprSingle(n.Left)
		key := fc.internName(n.Right.Lit)
		dst := fc.newReg()
		fc.emit(bytecode.GETATTR, ir.RegArg(dst), ir.RegArg(prefix), ir.RegArg(key))
		return dst
	case *ast.IndexExpr:
		prefix := fc.lowerExprSingle(n.Prefix)
		key := fc.lowerExprSingle(n.Index)
		dst := fc.newReg()
		fc.emit(bytecode.GETATTR, ir.RegArg(dst), ir.RegArg(prefix), ir.RegArg(key))
		return dst
	case *ast.TableExpr:
		return fc.lowerTable(n)
	case *ast.CallExpr:
		return fc.lowerCallSingle(n)
	case *ast.FuncExpr:
		return fc.lowerFuncBody(n.Body)
	case *ast.VarargExpr:
		dst := fc.newReg()
		fc.emit(bytecode.VARARG, ir.RegArg(dst), ir.SomeArg(0), ir.SomeArg(0))
		return dst
	case *ast.BadExpr:
		fail(n.Start, "cannot compile a malformed expression")
	}
	fail(token.NoPos, "unsupported expression %T", e)
	panic("unreachable")
}

func (fc *funcCompiler) lowerLiteral(n *ast.LiteralExpr) int {
	dst := fc.newReg()
	switch n.Type {
	case token.NIL:
		fc.emit(bytecode.LDN, ir.RegArg(dst))
	case token.TRUE:
		fc.loadInt(dst, 1)
	case token.FALSE:
		fc.loadInt(dst, 0)
	case token.INT:
		fc.loadInt(dst, n.Value.(int64))
	case token.FLOAT:
		idx := fc.c.pool.InternFloat(n.Raw)
		fc.emit(bytecode.LDF, ir.RegArg(dst), ir.SomeArg(idx))
	case token.STRING:
		idx := fc.c.pool.InternStr(n.Value.(string))
		fc.emit(bytecode.LDS, ir.RegArg(dst), ir.SomeArg(idx))
	default:
		fail(n.Start, "unsupported literal kind %s", n.Type)
	}
	return dst
}

// lowerBinOp lowers a binary expression. Arithmetic and relational operators
// map directly to their three-address opcode; "and"/"or" are short-circuit
// and produce their result via a Phi merging the two paths' registers,
// resolved later by SubstitutePhis; string concatenation is outside this
// compiler's supported operator set (SPEC_FULL.md §3's grammar subset) and
// is rejected.
func (fc *funcCompiler) lowerBinOp(n *ast.BinOpExpr) int {
	if op, ok := arithOps[n.Type]; ok {
		l := fc.lowerExprSingle(n.Left)
		r := fc.lowerExprSingle(n.Right)
		dst := fc.newReg()
		fc.emit(op, ir.RegArg(dst), ir.RegArg(l), ir.RegArg(r))
		return dst
	}
	if op, ok := compareOps[n.Type]; ok {
		l := fc.lowerExprSingle(n.Left)
		r := fc.lowerExprSingle(n.Right)
		dst := fc.newReg()
		fc.emit(op, ir.RegArg(dst), ir.RegArg(l), ir.RegArg(r))
		return dst
	}
	switch n.Type {
	case token.AND:
		return fc.lowerShortCircuit(n, true)
	case token.OR:
		return fc.lowerShortCircuit(n, false)
	}
	fail(n.Op, "unsupported operator %s", n.Type)
	panic("unreachable")
}

// lowerShortCircuit lowers "and" (wantTruthyToContinue==true) and "or"
// (==false): the right side is only evaluated when the left side's
// truthiness doesn't already decide the result.
func (fc *funcCompiler) lowerShortCircuit(n *ast.BinOpExpr, wantTruthyToContinue bool) int {
	left := fc.lowerExprSingle(n.Left)
	rightBlk := fc.fn.CreateBlock()
	mergeBlk := fc.fn.CreateBlock()

	if wantTruthyToContinue {
		fc.emitJump(bytecode.JMPNE, left, mergeBlk) // left falsy: "and" short-circuits to left
	} else {
		fc.emitJump(bytecode.JMPEQ, left, mergeBlk) // left truthy: "or" short-circuits to left
	}
	// Blocks are laid out in index order and the current block is not
	// necessarily the one just before rightBlk, so enter it explicitly.
	fc.emitJump(bytecode.JMP, 0, rightBlk)

	fc.setCurrent(rightBlk)
	right := fc.lowerExprSingle(n.Right)
	fc.emitJump(bytecode.JMP, 0, mergeBlk)

	fc.setCurrent(mergeBlk)
	dst := fc.newReg()
	fc.emitPhi(dst, left, right)
	return dst
}

// lowerUnaryOp synthesizes unary minus and "not" from the opcode set, which
// has no dedicated negate or boolean-complement instruction: minus is `0 -
// x`, "not" branches on the operand's truthiness and materializes 0 or 1 in
// the same destination register on each path.
func (fc *funcCompiler) lowerUnaryOp(n *ast.UnaryOpExpr) int {
	switch n.Type {
	case token.MINUS:
		r := fc.lowerExprSingle(n.Right)
		zero := fc.newReg()
		fc.loadInt(zero, 0)
		dst := fc.newReg()
		fc.emit(bytecode.SUB, ir.RegArg(dst), ir.RegArg(zero), ir.RegArg(r))
		return dst
	case token.NOT:
		r := fc.lowerExprSingle(n.Right)
		dst := fc.newReg()
		falsyBlk := fc.fn.CreateBlock()
		mergeBlk := fc.fn.CreateBlock()
		fc.emitJump(bytecode.JMPNE, r, falsyBlk)
		fc.loadInt(dst, 0) // operand truthy => not x is false
		fc.emitJump(bytecode.JMP, 0, mergeBlk)
		fc.setCurrent(falsyBlk)
		fc.loadInt(dst, 1) // operand falsy => not x is true
		fc.setCurrent(mergeBlk)
		return dst
	}
	fail(n.Op, "unsupported unary operator %s", n.Type)
	panic("unreachable")
}

func (fc *funcCompiler) lowerTable(n *ast.TableExpr) int {
	dst := fc.newReg()
	fc.emit(bytecode.LDT, ir.RegArg(dst))

	arrayIndex := int64(1)
	for _, fld := range n.Fields {
		var keyReg int
		switch {
		case fld.Key == nil:
			keyReg = fc.newReg()
			fc.loadInt(keyReg, arrayIndex)
			arrayIndex++
		case fld.Lbrack.IsValid():
			keyReg = fc.lowerExprSingle(fld.Key)
		default:
			keyReg = fc.internName(fld.Key.(*ast.IdentExpr).Lit)
		}
		valReg := fc.lowerExprSingle(fld.Value)
		fc.emit(bytecode.SETATTR, ir.RegArg(dst), ir.RegArg(keyReg), ir.RegArg(valReg))
	}
	return dst
}

// emitCallSetup lowers the callee and argument list of call and opens the
// frame: SetTop records the callee, one Push per argument stages the values,
// and the trailing Call executes it, leaving the results on the stack for a
// following run of MovR (or none, if the caller discards them).
func (fc *funcCompiler) emitCallSetup(call *ast.CallExpr) {
	var fnReg int
	args := call.Args
	if call.Method != nil {
		objReg := fc.lowerExprSingle(call.Fn)
		keyReg := fc.internName(call.Method.Lit)
		fnReg = fc.newReg()
		fc.emit(bytecode.GETATTR, ir.RegArg(fnReg), ir.RegArg(objReg), ir.RegArg(keyReg))
		fc.emit(bytecode.SETTOP, ir.RegArg(fnReg))
		fc.emit(bytecode.PUSH, ir.RegArg(objReg), ir.SomeArg(0), ir.SomeArg(0))
	} else {
		fnReg = fc.lowerExprSingle(call.Fn)
		fc.emit(bytecode.SETTOP, ir.RegArg(fnReg))
	}
	fc.lowerArgs(args)
	fc.emit(bytecode.CALL)
}

// lowerArgs pushes each argument in order. A trailing call or "..." expands
// to all of its values rather than just its first, matching an argument
// list's own multi-value rule.
func (fc *funcCompiler) lowerArgs(args []ast.Expr) {
	for i, a := range args {
		if i == len(args)-1 {
			if call, vararg := asMultiValue(a); call != nil || vararg != nil {
				if call != nil {
					fc.emitCallSetup(call)
					fc.emit(bytecode.MOVR, ir.SomeArg(0), ir.SomeArg(0), ir.SomeArg(1))
				} else {
					fc.emit(bytecode.VARARG, ir.SomeArg(0), ir.SomeArg(0), ir.SomeArg(1))
				}
				continue
			}
		}
		reg := fc.lowerExprSingle(a)
		fc.emit(bytecode.PUSH, ir.RegArg(reg), ir.SomeArg(0), ir.SomeArg(0))
	}
}

// lowerCallSingle lowers call as an operand, keeping only its first result.
func (fc *funcCompiler) lowerCallSingle(call *ast.CallExpr) int {
	fc.emitCallSetup(call)
	dst := fc.newReg()
	fc.emit(bytecode.MOVR, ir.RegArg(dst), ir.SomeArg(0), ir.SomeArg(0))
	return dst
}

// asMultiValue reports whether e, used as the last element of an expression
// list, expands to more than one value (a call's full result list, or all
// remaining varargs).
func asMultiValue(e ast.Expr) (call *ast.CallExpr, vararg *ast.VarargExpr) {
	switch n := e.(type) {
	case *ast.CallExpr:
		return n, nil
	case *ast.VarargExpr:
		return nil, n
	}
	return nil, nil
}

// lowerExprListInto lowers exprs into exactly n registers: a multi-valued
// last expression (call or "...") expands to fill the remaining targets,
// and any shortfall is padded with Nil, per spec.md §4.3's local/assignment
// RHS rule.
func (fc *funcCompiler) lowerExprListInto(exprs []ast.Expr, n int) []int {
	results := make([]int, 0, n)
	for i, e := range exprs {
		if i == len(exprs)-1 {
			if call, vararg := asMultiValue(e); call != nil || vararg != nil {
				remaining := n - len(results)
				if remaining < 0 {
					remaining = 0
				}
				if call != nil {
					fc.emitCallSetup(call)
				}
				for j := 0; j < remaining; j++ {
					dst := fc.newReg()
					if call != nil {
						fc.emit(bytecode.MOVR, ir.RegArg(dst), ir.SomeArg(j), ir.SomeArg(0))
					} else {
						fc.emit(bytecode.VARARG, ir.RegArg(dst), ir.SomeArg(j), ir.SomeArg(0))
					}
					results = append(results, dst)
				}
				continue
			}
		}
		results = append(results, fc.lowerExprSingle(e))
	}
	for len(results) < n {
		dst := fc.newReg()
		fc.emit(bytecode.LDN, ir.RegArg(dst))
		results = append(results, dst)
	}
	return results[:n]
}
