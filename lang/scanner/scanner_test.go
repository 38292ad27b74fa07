package scanner

import (
	"testing"

	"github.com/mna/luma/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []TokenAndValue {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test.lua", -1, len(src))

	var errs ErrorList
	var s Scanner
	s.Init(f, []byte(src), errs.Add)

	var out []TokenAndValue
	var val token.Value
	for {
		tok := s.Scan(&val)
		out = append(out, TokenAndValue{Token: tok, Value: val})
		if tok == token.EOF {
			break
		}
	}
	require.Empty(t, errs, "unexpected scan errors for %q", src)
	return out
}

func toks(tvs []TokenAndValue) []token.Token {
	out := make([]token.Token, len(tvs))
	for i, tv := range tvs {
		out[i] = tv.Token
	}
	return out
}

func TestScanKeywordsAndIdents(t *testing.T) {
	got := scanAll(t, "local x = foo")
	require.Equal(t, []token.Token{token.LOCAL, token.IDENT, token.EQ, token.IDENT, token.EOF}, toks(got))
	require.Equal(t, "x", got[1].Value.Raw)
	require.Equal(t, "foo", got[3].Value.Raw)
}

func TestScanNumbers(t *testing.T) {
	got := scanAll(t, "1 2.5 100 1e3")
	require.Equal(t, []token.Token{token.INT, token.FLOAT, token.INT, token.FLOAT, token.EOF}, toks(got))
	require.Equal(t, int64(1), got[0].Value.Int)
	require.Equal(t, 2.5, got[1].Value.Float)
	require.Equal(t, int64(100), got[2].Value.Int)
	require.Equal(t, 1000.0, got[3].Value.Float)
}

func TestScanOperators(t *testing.T) {
	got := scanAll(t, "== ~= <= >= < > .. ... // . , : ; ( ) [ ] { }")
	want := []token.Token{
		token.EQEQ, token.NE, token.LE, token.GE, token.LT, token.GT,
		token.CONCAT, token.DOTDOTDOT, token.SLASHSLASH, token.DOT, token.COMMA,
		token.COLON, token.SEMI, token.LPAREN, token.RPAREN, token.LBRACK,
		token.RBRACK, token.LBRACE, token.RBRACE, token.EOF,
	}
	require.Equal(t, want, toks(got))
}

func TestScanShortString(t *testing.T) {
	got := scanAll(t, `"hello\nworld" 'it''s'`)
	require.Equal(t, token.STRING, got[0].Token)
	require.Equal(t, "hello\nworld", got[0].Value.Str)
	require.Equal(t, token.STRING, got[1].Token)
	require.Equal(t, "it", got[1].Value.Str)
}

func TestScanLongString(t *testing.T) {
	got := scanAll(t, "[[hello\nworld]]")
	require.Equal(t, token.STRING, got[0].Token)
	require.Equal(t, "hello\nworld", got[0].Value.Str)

	got = scanAll(t, "[==[a]]b]==]")
	require.Equal(t, token.STRING, got[0].Token)
	require.Equal(t, "a]]b", got[0].Value.Str)
}

func TestScanComments(t *testing.T) {
	got := scanAll(t, "-- a line comment\nlocal")
	require.Equal(t, token.COMMENT, got[0].Token)
	require.Equal(t, " a line comment", got[0].Value.Str)
	require.Equal(t, token.LOCAL, got[1].Token)

	got = scanAll(t, "--[[ long\ncomment ]]local")
	require.Equal(t, token.COMMENT, got[0].Token)
	require.Equal(t, token.LOCAL, got[1].Token)
}

func TestScanIllegalChar(t *testing.T) {
	var errs ErrorList
	fs := token.NewFileSet()
	src := "local $ = 1"
	f := fs.AddFile("test.lua", -1, len(src))
	var s Scanner
	s.Init(f, []byte(src), errs.Add)
	var val token.Value
	for {
		tok := s.Scan(&val)
		if tok == token.EOF {
			break
		}
	}
	require.NotEmpty(t, errs)
}
