// Package regmap implements the register allocator used while lowering a
// function's body to IR: a stack of lexical scopes mapping local names to
// register ids.
package regmap

// Map tracks, for the function currently being lowered, which register holds
// which local name at each point of the lowering walk. Registers are never
// reclaimed when a block is popped: reg_count only grows, matching the VM's
// expectation that every register index used anywhere in the function stays
// valid (and distinct) for the whole activation.
type Map struct {
	scopes   []map[string]int
	regCount int
}

// New returns an empty register map with no open scope. PushBlock must be
// called before CreateReg or GetReg are used.
func New() *Map {
	return &Map{}
}

// PushBlock opens a new lexical scope; registers created after this call are
// looked up before any scope pushed earlier.
func (m *Map) PushBlock() {
	m.scopes = append(m.scopes, make(map[string]int))
}

// PopBlock closes the innermost lexical scope. Names bound in it stop being
// visible to GetReg, but the registers they occupied remain reserved.
func (m *Map) PopBlock() {
	m.scopes = m.scopes[:len(m.scopes)-1]
}

// NewReg allocates and returns a fresh register, without binding it to any
// name.
func (m *Map) NewReg() int {
	r := m.regCount
	m.regCount++
	return r
}

// CreateReg allocates a fresh register and binds name to it in the innermost
// scope.
func (m *Map) CreateReg(name string) int {
	reg := m.NewReg()
	m.SetReg(name, reg)
	return reg
}

// SetReg binds name to reg in the innermost scope, overwriting whatever the
// innermost scope previously bound name to.
func (m *Map) SetReg(name string, reg int) {
	m.scopes[len(m.scopes)-1][name] = reg
}

// GetReg returns the register bound to name, searching from the innermost
// scope outward, and false if name has no local binding.
func (m *Map) GetReg(name string) (int, bool) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if reg, ok := m.scopes[i][name]; ok {
			return reg, true
		}
	}
	return 0, false
}

// IsLocal reports whether name has a binding in any open scope.
func (m *Map) IsLocal(name string) bool {
	_, ok := m.GetReg(name)
	return ok
}

// RegCount returns the total number of registers allocated so far, the high
// water mark the owning function must reserve.
func (m *Map) RegCount() int {
	return m.regCount
}
