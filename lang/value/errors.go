package value

import "fmt"

// ErrKind identifies the kind of runtime error a value operation failed
// with, mirroring spec.md §7's closed set of error kinds. Unlike a Go
// sentinel error per kind, callers that need to distinguish kinds match on
// this field via errors.As(err, &RuntimeError{}) rather than err == SomeErr,
// since every RuntimeError also carries the operand kind(s) involved.
type ErrKind int

const (
	// GetAttrErr is raised by attribute access on a non-table.
	GetAttrErr ErrKind = iota
	// SetAttrErr is raised by attribute assignment on a non-table.
	SetAttrErr
	// IntConversionErr is raised when a value cannot convert to Int.
	IntConversionErr
	// FloatConversionErr is raised when a value cannot convert to Float.
	FloatConversionErr
	// StringConversionErr is raised when a value cannot convert to String.
	StringConversionErr
	// NotAClosure is raised by Call or an upvalue op on a non-closure.
	NotAClosure
	// OrderErr is raised when two values are ordered (<, <=, >, >=) but
	// neither the numeric nor the string ordering rule applies to them.
	OrderErr
)

func (k ErrKind) String() string {
	switch k {
	case GetAttrErr:
		return "GetAttrErr"
	case SetAttrErr:
		return "SetAttrErr"
	case IntConversionErr:
		return "IntConversionErr"
	case FloatConversionErr:
		return "FloatConversionErr"
	case StringConversionErr:
		return "StringConversionErr"
	case NotAClosure:
		return "NotAClosure"
	case OrderErr:
		return "OrderErr"
	default:
		return "UnknownErr"
	}
}

// RuntimeError is the concrete error type for every value-level failure
// except host-originated ones (see HostError): it records which error kind
// fired and the operand kind(s) that triggered it, enough to format a
// useful message without the caller needing to reconstruct context.
type RuntimeError struct {
	Kind ErrKind
	From Kind // the operand kind that failed, for conversion/attr errors
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.From)
}

// ConversionError reports e as a RuntimeError naming the conversion that
// failed and the operand kind it failed on.
func ConversionError(kind ErrKind, from Kind) error {
	return &RuntimeError{Kind: kind, From: from}
}

// AttrError reports e as a RuntimeError naming GetAttrErr or SetAttrErr and
// the non-table operand kind the attribute op was attempted on.
func AttrError(kind ErrKind, from Kind) error {
	return &RuntimeError{Kind: kind, From: from}
}

// OrderError reports two operand kinds that cannot be ordered against each
// other.
type OrderError struct {
	Left, Right Kind
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s: attempt to compare %s with %s", OrderErr, e.Left, e.Right)
}

// NotAClosureError reports that a Call or upvalue op targeted a non-closure
// value of kind From.
type NotAClosureError struct {
	From Kind
}

func (e *NotAClosureError) Error() string {
	return fmt.Sprintf("%s: %s", NotAClosure, e.From)
}

// HostError is a host-originated runtime error (spec.md §7's `Error(msg)`
// kind), e.g. raised by the standard library's assert.
type HostError struct {
	Msg string
}

func (e *HostError) Error() string { return e.Msg }

// DivByZeroError is raised by integer FDiv (//) or Mod (%) when the right
// operand is zero. Valid source such as `x = 1 // 0` must not crash the
// process with Go's own divide-by-zero panic (spec.md §7's "no panics on
// valid input"); Lua instead raises a recoverable runtime error here. Float
// division by zero is unaffected: it follows ordinary IEEE 754 float
// semantics and produces Inf/NaN, never this error.
type DivByZeroError struct{}

func (e *DivByZeroError) Error() string {
	return "attempt to perform 'n//0'"
}
