package ir

import "github.com/mna/luma/lang/regmap"

// Func is one function's compile-time IR: its basic blocks, register map,
// and the bookkeeping needed to wire up closures over it. No register holds
// _ENV: every function reaches it through upvalue slot 0.
type Func struct {
	Index      int
	RegMap     *regmap.Map
	ParamCount int
	IsVararg   bool
	Blocks     []*BasicBlock
	// Children holds the nested function definitions appearing in this
	// function's body, in the order a Closure instruction refers to them by
	// index.
	Children []*Func
	// Provides maps a child's index (into Children) to the ordered list of
	// (source, upvalSlot) entries describing how to populate that child's
	// upvalues from this function's own frame when a Closure instruction for
	// it executes.
	Provides map[int][]Provider
}

// NewFunc returns an empty function record ready for lowering.
func NewFunc(index, paramCount int, isVararg bool) *Func {
	return &Func{
		Index:      index,
		RegMap:     regmap.New(),
		ParamCount: paramCount,
		IsVararg:   isVararg,
		Provides:   make(map[int][]Provider),
	}
}

// CreateBlock appends a new empty basic block and returns its index.
func (f *Func) CreateBlock() int {
	f.Blocks = append(f.Blocks, &BasicBlock{})
	return len(f.Blocks) - 1
}

// Block returns the basic block at index i.
func (f *Func) Block(i int) *BasicBlock {
	return f.Blocks[i]
}

// RegCount returns the number of registers this function's activation must
// reserve.
func (f *Func) RegCount() int {
	return f.RegMap.RegCount()
}

// AddChild appends child to f's list of nested function definitions and
// returns its index, for use in a Closure instruction's Arg.
func (f *Func) AddChild(child *Func) int {
	f.Children = append(f.Children, child)
	return len(f.Children) - 1
}

// AddProvider records one entry of childIdx's provider list.
func (f *Func) AddProvider(childIdx int, source ProviderSource, upvalSlot int) {
	f.Provides[childIdx] = append(f.Provides[childIdx], Provider{Source: source, UpvalSlot: upvalSlot})
}
