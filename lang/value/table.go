package value

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// TableVal is Lua's associative-array table, backed by a swiss-table hash
// map keyed by Value itself (comparable, per Value's discriminated-union
// design). Missing keys read as Nil rather than erroring, matching Lua's
// "indexing an absent key yields nil" rule and the original design's
// get_attr behavior.
type TableVal struct {
	m *swiss.Map[Value, Value]
}

// NewTable returns an empty table with initial capacity for at least size
// entries. Passing 0 is fine; the map grows as needed.
func NewTable(size int) *TableVal {
	if size < 1 {
		size = 1
	}
	return &TableVal{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (t *TableVal) String() string { return fmt.Sprintf("table: %p", t) }

// Get returns the value stored at key, or Nil if key is absent.
func (t *TableVal) Get(key Value) Value {
	v, ok := t.m.Get(key)
	if !ok {
		return Value{}
	}
	return v
}

// Set stores val at key. Setting a key to Nil does not remove it; callers
// that need removal should use Delete.
func (t *TableVal) Set(key, val Value) {
	t.m.Put(key, val)
}

// Delete removes key from the table, if present.
func (t *TableVal) Delete(key Value) {
	t.m.Delete(key)
}

// Len reports the number of entries currently stored.
func (t *TableVal) Len() int {
	return t.m.Count()
}
