package scanner

import "github.com/mna/luma/lang/token"

// number scans a decimal integer or float literal: digit+ for an integer,
// with an optional '.' digit* fractional part and an optional e/E exponent
// turning it into a float.
func (s *Scanner) number() (tok token.Token, lit string) {
	startOff := s.off
	tok = token.INT

	sawDigit := s.digits()

	if s.cur == '.' {
		tok = token.FLOAT
		s.advance()
		if s.digits() {
			sawDigit = true
		}
	}

	if !sawDigit {
		s.error(startOff, "malformed number: no digits")
	}

	if lower(s.cur) == 'e' {
		tok = token.FLOAT
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		if !s.digits() {
			s.error(startOff, "malformed number: exponent has no digits")
		}
	}

	return tok, string(s.src[startOff:s.off])
}

func isDecimal(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isHexadecimal(rn rune) bool {
	return isDecimal(rn) ||
		'a' <= rn && rn <= 'f' ||
		'A' <= rn && rn <= 'F'
}

// digits consumes a run of decimal digits, advancing past each one. It
// reports whether at least one digit was consumed.
func (s *Scanner) digits() bool {
	var any bool
	for isDecimal(s.cur) {
		any = true
		s.advance()
	}
	return any
}

func lower(ch rune) rune {
	return ('a' - 'A') | ch // returns lower-case ch iff ch is ASCII letter
}
