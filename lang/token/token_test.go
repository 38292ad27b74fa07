package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d has no string form", tok)
	}
}

func TestGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "'=='", EQEQ.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
	require.Equal(t, "end of file", EOF.GoString())
}

func TestIsKeyword(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		want := tok >= AND && tok < maxToken
		require.Equal(t, want, tok.IsKeyword(), tok.String())
	}
}

func TestLiteral(t *testing.T) {
	require.Equal(t, "", PLUS.Literal(Value{}))
	require.Equal(t, "", WHILE.Literal(Value{}))
	require.Equal(t, "x", IDENT.Literal(Value{Raw: "x"}))
	require.Equal(t, `"hi"`, STRING.Literal(Value{Str: "hi"}))
	require.Equal(t, "42", INT.Literal(Value{Int: 42}))
	require.Equal(t, "1.5", FLOAT.Literal(Value{Float: 1.5}))
}

func TestLookupKw(t *testing.T) {
	require.Equal(t, WHILE, LookupKw("while"))
	require.Equal(t, FUNCTION, LookupKw("function"))
	require.Equal(t, IDENT, LookupKw("while2"))
	require.Equal(t, IDENT, LookupKw("x"))
}

func TestLookupPunct(t *testing.T) {
	require.Equal(t, PLUS, LookupPunct("+"))
	require.Equal(t, EQEQ, LookupPunct("=="))
	require.Equal(t, ILLEGAL, LookupPunct("$"))
}

func TestIsArith(t *testing.T) {
	for _, tok := range []Token{PLUS, MINUS, STAR, SLASH, SLASHSLASH, PERCENT, CIRCUMFLEX} {
		require.True(t, IsArith(tok), tok.String())
	}
	for _, tok := range []Token{LT, AND, IDENT, EQ} {
		require.False(t, IsArith(tok), tok.String())
	}
}

func TestIsCompare(t *testing.T) {
	for _, tok := range []Token{LT, GT, GE, LE, EQEQ, NE} {
		require.True(t, IsCompare(tok), tok.String())
	}
	for _, tok := range []Token{PLUS, AND, EQ} {
		require.False(t, IsCompare(tok), tok.String())
	}
}

func TestIsUnop(t *testing.T) {
	for _, tok := range []Token{MINUS, NOT} {
		require.True(t, tok.IsUnop(), tok.String())
	}
	for _, tok := range []Token{PLUS, AND, IDENT} {
		require.False(t, tok.IsUnop(), tok.String())
	}
}

func TestIsBinop(t *testing.T) {
	for _, tok := range []Token{PLUS, MINUS, STAR, SLASH, SLASHSLASH, PERCENT,
		CIRCUMFLEX, CONCAT, AND, OR, LT, GT, GE, LE, EQEQ, NE} {
		require.True(t, tok.IsBinop(), tok.String())
	}
	for _, tok := range []Token{NOT, EQ, LPAREN, DOT} {
		require.False(t, tok.IsBinop(), tok.String())
	}
}

func TestIsAtom(t *testing.T) {
	for _, tok := range []Token{NIL, TRUE, FALSE, STRING, INT, FLOAT} {
		require.True(t, tok.IsAtom(), tok.String())
	}
	for _, tok := range []Token{IDENT, PLUS, LPAREN} {
		require.False(t, tok.IsAtom(), tok.String())
	}
}
