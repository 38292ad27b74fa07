// Package ir defines the intermediate representation the compiler lowers an
// AST into: three-address instructions grouped into basic blocks, one
// per compiled function, still addressing registers directly (register
// allocation already happened in lang/regmap during lowering) but not yet
// flattened into a linear bytecode.Module.
package ir

import "github.com/mna/luma/lang/bytecode"

// ArgKind identifies the kind of value an Arg carries.
type ArgKind int

const (
	ArgNil ArgKind = iota
	ArgTable
	ArgInt
	ArgFloat
	ArgStr
	ArgReg
	ArgFunc
	ArgSome
)

// Arg is one operand of an IR instruction. Exactly the field matching Kind
// is meaningful.
type Arg struct {
	Kind  ArgKind
	Int   int64
	Float float64
	Str   string
	Reg   int // register index, for ArgReg
	Func  int // child function index, for ArgFunc
	Some  int // opcode-specific small integer (a flag, a count...), for ArgSome
}

func NilArg() Arg            { return Arg{Kind: ArgNil} }
func TableArg() Arg          { return Arg{Kind: ArgTable} }
func IntArg(v int64) Arg     { return Arg{Kind: ArgInt, Int: v} }
func FloatArg(v float64) Arg { return Arg{Kind: ArgFloat, Float: v} }
func StrArg(v string) Arg    { return Arg{Kind: ArgStr, Str: v} }
func RegArg(r int) Arg       { return Arg{Kind: ArgReg, Reg: r} }
func FuncArg(idx int) Arg    { return Arg{Kind: ArgFunc, Func: idx} }
func SomeArg(v int) Arg      { return Arg{Kind: ArgSome, Some: v} }

// IsReg reports whether a holds a register operand.
func (a Arg) IsReg() bool { return a.Kind == ArgReg }

// Op identifies the operation of an Instr: either a real bytecode opcode
// that will survive into the flattened module, or Phi, a lowering-time-only
// marker consumed by SubstitutePhis before bytecode emission ever sees it.
type Op int32

// Phi marks a block-merge placeholder: Phi(dst, src1, src2, ...) means "dst
// should read as whichever of src1, src2, ... was last assigned on the path
// that reached this point". SubstitutePhis resolves these before emission.
const Phi Op = -1

// Real wraps a bytecode opcode as an IR Op.
func Real(op bytecode.Opcode) Op { return Op(op) }

// IsPhi reports whether o is the Phi marker.
func (o Op) IsPhi() bool { return o == Phi }

// Opcode returns the wrapped bytecode opcode. It panics if o is Phi.
func (o Op) Opcode() bytecode.Opcode {
	if o.IsPhi() {
		panic("ir: Op is Phi, not a bytecode opcode")
	}
	return bytecode.Opcode(o)
}

// Instr is one IR instruction: an operation and its operands.
type Instr struct {
	Op   Op
	Args []Arg
}

// ReplaceRegsWith rewrites every Arg in in that holds a register listed in
// regs to instead hold register with, in place. Used by phi substitution to
// merge the phi's sources into its destination register.
func (in *Instr) ReplaceRegsWith(regs []int, with int) {
	for i, a := range in.Args {
		if !a.IsReg() {
			continue
		}
		for _, r := range regs {
			if a.Reg == r {
				in.Args[i] = RegArg(with)
				break
			}
		}
	}
}

// BasicBlock is a run of instructions; conditional jumps may appear before
// its last instruction. Blocks are flattened in index order, so a block that
// does not end in an unconditional jump or a return continues into the block
// with the next index.
type BasicBlock struct {
	Instrs []Instr
}

// Push appends an instruction to b.
func (b *BasicBlock) Push(op Op, args ...Arg) {
	b.Instrs = append(b.Instrs, Instr{Op: op, Args: args})
}

// ProviderSource names where a child function's upvalue slot is populated
// from in its parent: either a parent register (the parent owns the value
// directly) or one of the parent's own upvalue slots (the parent is itself
// just forwarding a value from further up the chain).
type ProviderSource struct {
	FromUpval bool
	Slot      int
}

// RegSource builds a ProviderSource reading from parent register r.
func RegSource(r int) ProviderSource { return ProviderSource{Slot: r} }

// UpvalSource builds a ProviderSource reading from the parent's own upvalue
// slot u.
func UpvalSource(u int) ProviderSource { return ProviderSource{FromUpval: true, Slot: u} }

// Provider records one entry of a Func's Provides map: where a descendant's
// upvalue slot UpvalSlot is populated from, in this function's frame.
type Provider struct {
	Source    ProviderSource
	UpvalSlot int
}
