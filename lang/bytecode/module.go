package bytecode

// ProviderKind distinguishes the two sources a closure's upvalue slot can be
// populated from when a Closure instruction runs.
type ProviderKind uint8

const (
	// ProviderReg sources the value from a register of the function creating
	// the closure.
	ProviderReg ProviderKind = 0
	// ProviderUpval sources the value from one of the creating function's own
	// upvalue slots (it is itself just forwarding a capture from further up).
	ProviderUpval ProviderKind = 1
)

// Provide is one entry of a Function's provides map: how to populate upvalue
// slot Slot of child function ChildIndex when its Closure instruction runs.
type Provide struct {
	ChildIndex uint8
	Kind       ProviderKind
	Src        uint8
	Slot       uint8
}

// Function is the post-lowering, flattened form of a compiled function:
// fixed-width instructions ready for the dispatch loop, no more basic-block
// structure.
type Function struct {
	Index      uint32
	RegCount   uint32
	ParamCount uint32
	IsVararg   bool
	// Children holds the module-level index of each nested function defined
	// in this function's body, ordered so a Closure instruction's operand k
	// means Children[k].
	Children []uint32
	Provides []Provide
	Instrs   []uint32
}

// Module is a complete compiled program: the three constant tables, every
// function flattened to its final instruction stream, and the index of the
// function to start execution at.
type Module struct {
	Ints    []int64
	Floats  []float64
	Strings []string

	Functions []*Function
	Main      uint32
}
