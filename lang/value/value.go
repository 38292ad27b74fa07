// Package value implements the runtime values manipulated by lang/machine:
// a tagged Value type covering Lua's nil, integer, float, string, table, and
// closure kinds, plus the conversion, equality, and ordering rules that
// define how they interact.
//
// spec.md's tagged-pointer representation (three low bits of a machine word
// as the kind tag, with large ints and "awkward" floats boxed on the heap)
// is explicitly optional: implementers may instead use a discriminated
// union with identical observable semantics. This package takes that
// option, for a concrete reason beyond convenience: Value must be
// comparable to serve as the key type of Table's backing
// github.com/mna/swiss map, and a plain struct of scalar fields is
// comparable in Go the way a tagged pointer word is comparable in the
// original design, while an interface value boxing a *big.Int or similar
// would not be.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which of Value's scalar fields, or which heap pointer, is
// meaningful.
type Kind int

const (
	Nil Kind = iota
	Int
	Float
	String
	Table
	Closure
	// CellKind marks a boxed upvalue cell (see cell.go). It is an internal
	// bookkeeping kind lang/machine uses to share a captured local by
	// reference; no Lua-observable value ever carries it.
	CellKind
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Table:
		return "table"
	case Closure:
		return "closure"
	case CellKind:
		return "cell"
	default:
		return "invalid"
	}
}

// Value is a single Lua runtime value. The zero Value is Nil.
//
// Only one of i, f, s, t, c is meaningful, selected by kind; this is the
// discriminated-union stand-in for spec.md's tagged pointer. Value is
// comparable (all fields are comparable Go types), so it may be used
// directly as a map key, matching the original design's identity/content
// equality for Nil/Int/Float/String and pointer identity for Table/Closure.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	t    *TableVal
	c    *ClosureVal
	cell *Cell
}

// IntVal returns the integer value i.
func IntVal(i int64) Value { return Value{kind: Int, i: i} }

// FloatVal returns the float value f.
func FloatVal(f float64) Value { return Value{kind: Float, f: f} }

// StringVal returns the string value s.
func StringVal(s string) Value { return Value{kind: String, s: s} }

// TableValOf returns a Value wrapping t.
func TableValOf(t *TableVal) Value { return Value{kind: Table, t: t} }

// ClosureValOf returns a Value wrapping c.
func ClosureValOf(c *ClosureVal) Value { return Value{kind: Closure, c: c} }

// Kind reports v's runtime kind.
func (v Value) Kind() Kind { return v.kind }

// IsTruthy reports whether v is truthy: Nil is falsy, and so is Int(0) since
// there is no distinct boolean kind and true/false compile to Int(1)/Int(0)
// (see DESIGN.md's Boolean representation resolution); every other value,
// including Float 0.0, is truthy.
func (v Value) IsTruthy() bool {
	if v.kind == Nil {
		return false
	}
	if v.kind == Int {
		return v.i != 0
	}
	return true
}

func (v Value) AsTable() (*TableVal, bool) {
	if v.kind != Table {
		return nil, false
	}
	return v.t, true
}

func (v Value) AsClosure() (*ClosureVal, bool) {
	if v.kind != Closure {
		return nil, false
	}
	return v.c, true
}

// IsAopFloat reports whether v forces float semantics when it participates
// in an arithmetic operator: floats and strings do, per spec.md §4.6/§9's
// "aop-float" rule; ints, tables, and closures don't. Exported for
// lang/machine's arithmetic opcode dispatch.
func (v Value) IsAopFloat() bool {
	return v.kind == Float || v.kind == String
}

func (v Value) isNumber() bool {
	return v.kind == Int || v.kind == Float
}

// ToInt converts v to an integer: Int is returned as-is; Float always fails
// (spec.md §7: "Float → Int fails", with no fractional-part exception);
// String parses as an integer literal; Table and Closure fail.
func (v Value) ToInt() (int64, error) {
	switch v.kind {
	case Int:
		return v.i, nil
	case String:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0, ConversionError(IntConversionErr, v.kind)
		}
		return n, nil
	default:
		return 0, ConversionError(IntConversionErr, v.kind)
	}
}

// ToFloat converts v to a float: Int→Float is lossless; Float is returned
// as-is; String parses as a float literal; Table and Closure fail.
func (v Value) ToFloat() (float64, error) {
	switch v.kind {
	case Int:
		return float64(v.i), nil
	case Float:
		return v.f, nil
	case String:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, ConversionError(FloatConversionErr, v.kind)
		}
		return f, nil
	default:
		return 0, ConversionError(FloatConversionErr, v.kind)
	}
}

// ToGoString converts v to a string: Int and Float use their usual decimal
// rendering, String is identity, Nil, Table and Closure fail.
func (v Value) ToGoString() (string, error) {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10), nil
	case Float:
		return formatFloat(v.f), nil
	case String:
		return v.s, nil
	default:
		return "", ConversionError(StringConversionErr, v.kind)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String renders v for print/to_string purposes. It never fails: it mirrors
// ToGoString for the scalar kinds and, where ToGoString fails with a
// StringConversionErr, renders Nil as "nil" and a table or closure as its
// kind and address.
func (v Value) String() string {
	switch v.kind {
	case Nil:
		return "nil"
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case String:
		return v.s
	case Table:
		return fmt.Sprintf("table: %p", v.t)
	case Closure:
		return fmt.Sprintf("function: %p", v.c)
	default:
		return "<invalid>"
	}
}

// Equals implements spec.md §7's equality rule: Nil == Nil; two numeric
// values compare equal iff their float conversions are equal; strings
// compare by content; tables and closures compare by identity; any other
// cross-kind pairing is false.
func (v Value) Equals(other Value) bool {
	if v.kind == Nil && other.kind == Nil {
		return true
	}
	if v.isNumber() && other.isNumber() {
		vf, _ := v.ToFloat()
		of, _ := other.ToFloat()
		return vf == of
	}
	if v.kind == String && other.kind == String {
		return v.s == other.s
	}
	if v.kind == Table && other.kind == Table {
		return v.t == other.t
	}
	if v.kind == Closure && other.kind == Closure {
		return v.c == other.c
	}
	return false
}

// Compare implements spec.md §7's ordering rule: numeric/numeric comparisons
// use Float semantics; string/string comparisons are lexicographic by byte
// content; any other pairing (including Nil, Table, or Closure on either
// side, or a numeric compared to a string) raises rather than ordering.
func (v Value) Compare(other Value) (int, error) {
	if v.isNumber() && other.isNumber() {
		vf, _ := v.ToFloat()
		of, _ := other.ToFloat()
		switch {
		case vf < of:
			return -1, nil
		case vf > of:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if v.kind == String && other.kind == String {
		switch {
		case v.s < other.s:
			return -1, nil
		case v.s > other.s:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, &OrderError{Left: v.kind, Right: other.kind}
}
