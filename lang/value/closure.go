package value

import "fmt"

// ClosureVal is a Lua function value: an immutable reference to its
// compiled function (by index into the module's function table) plus its
// captured upvalues, and a handful of fields the calling convention
// mutates across a single activation (spec.md §3's "interior mutability"
// note, §4.7's calling convention).
type ClosureVal struct {
	FuncIndex  int
	RegCount   int
	ParamCount int
	IsVararg   bool

	// Upvals holds the values captured from enclosing scopes; slot 0 is
	// always the closure's _ENV, bound automatically when the closure is
	// created (spec.md §4.7's Closure instruction).
	Upvals []Value

	// Host, when non-nil, makes this a host-implemented (standard library)
	// function: Call dispatches to it directly with the already-staged
	// argument slice instead of running bytecode, and FuncIndex/RegCount/
	// ParamCount/IsVararg are meaningless. This is how print/assert/io.write/
	// string.format are installed into _ENV: as ordinary Closure values that
	// happen to skip the bytecode dispatch loop.
	Host func(args []Value) ([]Value, error)
}

// NewClosure returns a closure over funcIndex with upvalSlots upvalue
// slots, all initially Nil (slot 0 is filled in by the caller immediately
// after construction, per the Closure instruction's contract).
func NewClosure(funcIndex, regCount, paramCount int, isVararg bool, upvalSlots int) *ClosureVal {
	return &ClosureVal{
		FuncIndex:  funcIndex,
		RegCount:   regCount,
		ParamCount: paramCount,
		IsVararg:   isVararg,
		Upvals:     make([]Value, upvalSlots),
	}
}

// NewHostClosure returns a closure that dispatches every call straight to
// fn, bypassing the bytecode interpreter.
func NewHostClosure(fn func(args []Value) ([]Value, error)) *ClosureVal {
	return &ClosureVal{Host: fn}
}

func (c *ClosureVal) String() string { return fmt.Sprintf("function: %p", c) }
