package token

import "strconv"

// Value carries the decoded payload of a scanned token: its position, and
// for tokens whose spelling isn't fixed, the content that varies. Raw always
// holds the exact source text of the token, which is what most callers want
// to report in diagnostics.
type Value struct {
	Pos   Pos
	Raw   string  // exact source text
	Str   string  // escape-decoded content, for STRING and COMMENT
	Int   int64   // parsed magnitude, for INT
	Float float64 // parsed magnitude, for FLOAT
}

func quote(s string) string   { return strconv.Quote(s) }
func formatInt(n int64) string { return strconv.FormatInt(n, 10) }
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
