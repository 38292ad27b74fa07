package machine

import (
	"math"

	"github.com/mna/luma/lang/value"
)

// binNumOp applies an arithmetic opcode to l, r, following the aop-float
// rule: float or string operands on either side force float semantics and
// conversion errors (e.g. a table operand) raise, per spec.md §4.6's
// Add/Sub/Mul/Mod row.
func binNumOp(l, r value.Value, intOp func(a, b int64) (int64, error), floatOp func(a, b float64) float64) (value.Value, error) {
	if l.IsAopFloat() || r.IsAopFloat() {
		lf, err := l.ToFloat()
		if err != nil {
			return value.Value{}, err
		}
		rf, err := r.ToFloat()
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatVal(floatOp(lf, rf)), nil
	}
	li, err := l.ToInt()
	if err != nil {
		return value.Value{}, err
	}
	ri, err := r.ToInt()
	if err != nil {
		return value.Value{}, err
	}
	i, err := intOp(li, ri)
	if err != nil {
		return value.Value{}, err
	}
	return value.IntVal(i), nil
}

func addOp(l, r value.Value) (value.Value, error) {
	return binNumOp(l, r,
		func(a, b int64) (int64, error) { return a + b, nil },
		func(a, b float64) float64 { return a + b })
}

func subOp(l, r value.Value) (value.Value, error) {
	return binNumOp(l, r,
		func(a, b int64) (int64, error) { return a - b, nil },
		func(a, b float64) float64 { return a - b })
}

func mulOp(l, r value.Value) (value.Value, error) {
	return binNumOp(l, r,
		func(a, b int64) (int64, error) { return a * b, nil },
		func(a, b float64) float64 { return a * b })
}

func modOp(l, r value.Value) (value.Value, error) {
	return binNumOp(l, r,
		floorModInt,
		func(a, b float64) float64 { return a - math.Floor(a/b)*b })
}

// divOp implements Div: always float, regardless of aop-float.
func divOp(l, r value.Value) (value.Value, error) {
	lf, err := l.ToFloat()
	if err != nil {
		return value.Value{}, err
	}
	rf, err := r.ToFloat()
	if err != nil {
		return value.Value{}, err
	}
	return value.FloatVal(lf / rf), nil
}

// fdivOp implements FDiv: floor of float division under the aop-float rule,
// otherwise a genuine floored integer division (Go's / truncates toward
// zero; Lua's // floors toward negative infinity).
func fdivOp(l, r value.Value) (value.Value, error) {
	return binNumOp(l, r,
		floorDivInt,
		func(a, b float64) float64 { return math.Floor(a / b) })
}

func floorDivInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, &value.DivByZeroError{}
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q, nil
}

func floorModInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, &value.DivByZeroError{}
	}
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m, nil
}

// expOp implements Exp: always float, via math.Pow.
func expOp(l, r value.Value) (value.Value, error) {
	lf, err := l.ToFloat()
	if err != nil {
		return value.Value{}, err
	}
	rf, err := r.ToFloat()
	if err != nil {
		return value.Value{}, err
	}
	return value.FloatVal(math.Pow(lf, rf)), nil
}

func boolVal(b bool) value.Value {
	if b {
		return value.IntVal(1)
	}
	return value.IntVal(0)
}

func eqOp(l, r value.Value) value.Value  { return boolVal(l.Equals(r)) }
func neOp(l, r value.Value) value.Value  { return boolVal(!l.Equals(r)) }
func ltOp(l, r value.Value) (value.Value, error) {
	c, err := l.Compare(r)
	if err != nil {
		return value.Value{}, err
	}
	return boolVal(c < 0), nil
}
func gtOp(l, r value.Value) (value.Value, error) {
	c, err := l.Compare(r)
	if err != nil {
		return value.Value{}, err
	}
	return boolVal(c > 0), nil
}
func leOp(l, r value.Value) (value.Value, error) {
	c, err := l.Compare(r)
	if err != nil {
		return value.Value{}, err
	}
	return boolVal(c <= 0), nil
}
func geOp(l, r value.Value) (value.Value, error) {
	c, err := l.Compare(r)
	if err != nil {
		return value.Value{}, err
	}
	return boolVal(c >= 0), nil
}
