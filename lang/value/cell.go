package value

// Cell boxes a Value so a captured local can be shared by reference between
// the enclosing function's register and every closure that captures it,
// rather than copied. This is the register-machine counterpart of the
// teacher's FREE/LOCALCELL indirect-capture scheme (recorded as dropped in
// an earlier pass of this ledger and restored here): lang/machine boxes a
// register the first time a Closure instruction captures it, shares the
// same *Cell into the child's upvalue slot, and from then on every read or
// write of that register or upvalue goes through the box, so a write from
// either side is visible to the other.
type Cell struct {
	V Value
}

// NewCell returns a *Cell boxing v.
func NewCell(v Value) *Cell { return &Cell{V: v} }

// CellValOf returns a Value wrapping cell itself, not cell's contents. This
// is an internal marker kind: lang/machine is the only consumer, using it to
// tell an already-boxed register or upvalue slot apart from an ordinary
// value, never a value Lua code can observe directly.
func CellValOf(cell *Cell) Value { return Value{kind: CellKind, cell: cell} }

// AsCell reports whether v is a boxed Cell, and the box itself if so.
func (v Value) AsCell() (*Cell, bool) {
	if v.kind != CellKind {
		return nil, false
	}
	return v.cell, true
}
