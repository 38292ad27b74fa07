// Package pool implements the compiler's constant pool: the interning
// tables for integer, float and string literals that are shared across a
// whole compiled module, plus the freezing step that turns them into the
// dense, index-addressable vectors the bytecode format stores.
package pool

import "strconv"

// Pool interns integer, float and string constants encountered while
// compiling, assigning each a stable, first-seen-order index. The same
// constant always gets the same index, so two occurrences of 1.5 or "foo"
// anywhere in a function share one entry in the frozen module.
//
// Float constants are keyed by their literal text rather than the decoded
// float64, mirroring how the compiler first sees them: this avoids NaN (which
// is never equal to itself) colliding entries, and keeps "1.0" and "1" from
// ever being merged just because they parse to the same bit pattern.
type Pool struct {
	ints     map[int64]int
	intOrd   []int64
	floats   map[string]int
	floatOrd []string
	strs     map[string]int
	strOrd   []string
}

// New returns an empty constant pool.
func New() *Pool {
	return &Pool{
		ints:   make(map[int64]int),
		floats: make(map[string]int),
		strs:   make(map[string]int),
	}
}

// InternInt returns the index of v in the integer constant table, assigning
// it a new one the first time v is seen.
func (p *Pool) InternInt(v int64) int {
	if ix, ok := p.ints[v]; ok {
		return ix
	}
	ix := len(p.intOrd)
	p.ints[v] = ix
	p.intOrd = append(p.intOrd, v)
	return ix
}

// InternFloat returns the index of the float literal lit (its original
// source text) in the float constant table, assigning it a new one the first
// time lit is seen.
func (p *Pool) InternFloat(lit string) int {
	if ix, ok := p.floats[lit]; ok {
		return ix
	}
	ix := len(p.floatOrd)
	p.floats[lit] = ix
	p.floatOrd = append(p.floatOrd, lit)
	return ix
}

// InternStr returns the index of s (already escape-decoded by the scanner)
// in the string constant table, assigning it a new one the first time s is
// seen.
func (p *Pool) InternStr(s string) int {
	if ix, ok := p.strs[s]; ok {
		return ix
	}
	ix := len(p.strOrd)
	p.strs[s] = ix
	p.strOrd = append(p.strOrd, s)
	return ix
}

// Frozen holds the dense constant vectors produced by Freeze, ready to be
// embedded in a bytecode module.
type Frozen struct {
	Ints    []int64
	Floats  []float64
	Strings []string
}

// Freeze produces the dense, first-seen-ordered constant vectors for
// everything interned so far. Float literals are parsed to float64 here,
// at freeze time, rather than when they were first interned.
func Freeze(p *Pool) (Frozen, error) {
	floats := make([]float64, len(p.floatOrd))
	for i, lit := range p.floatOrd {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return Frozen{}, err
		}
		floats[i] = v
	}

	ints := make([]int64, len(p.intOrd))
	copy(ints, p.intOrd)
	strs := make([]string, len(p.strOrd))
	copy(strs, p.strOrd)

	return Frozen{Ints: ints, Floats: floats, Strings: strs}, nil
}
