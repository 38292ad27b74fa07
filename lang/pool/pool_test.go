package pool_test

import (
	"testing"

	"github.com/mna/luma/lang/pool"
	"github.com/stretchr/testify/require"
)

func TestInternIntIdempotent(t *testing.T) {
	p := pool.New()
	require.Equal(t, 0, p.InternInt(2))
	require.Equal(t, 1, p.InternInt(4))
	require.Equal(t, 2, p.InternInt(1))
	require.Equal(t, 3, p.InternInt(3))
	require.Equal(t, 0, p.InternInt(2)) // repeat: same index, no new entry

	frozen, err := pool.Freeze(p)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 4, 1, 3}, frozen.Ints)
}

func TestInternFloatByLiteralText(t *testing.T) {
	p := pool.New()
	require.Equal(t, 0, p.InternFloat("2.0"))
	require.Equal(t, 1, p.InternFloat("4.2"))
	require.Equal(t, 2, p.InternFloat("1.1"))
	require.Equal(t, 3, p.InternFloat("3.0"))
	require.Equal(t, 0, p.InternFloat("2.0"))

	frozen, err := pool.Freeze(p)
	require.NoError(t, err)
	require.Equal(t, []float64{2.0, 4.2, 1.1, 3.0}, frozen.Floats)
}

func TestInternStr(t *testing.T) {
	p := pool.New()
	require.Equal(t, 0, p.InternStr("Foo"))
	require.Equal(t, 1, p.InternStr("Bar"))
	require.Equal(t, 0, p.InternStr("Foo"))

	frozen, err := pool.Freeze(p)
	require.NoError(t, err)
	require.Equal(t, []string{"Foo", "Bar"}, frozen.Strings)
}

func TestFreezeIsIdempotent(t *testing.T) {
	p := pool.New()
	p.InternInt(7)
	p.InternStr("x")

	f1, err := pool.Freeze(p)
	require.NoError(t, err)
	f2, err := pool.Freeze(p)
	require.NoError(t, err)
	require.Equal(t, f1, f2)
}

func TestInternedStringsAreAlreadyEscapeDecoded(t *testing.T) {
	// the scanner decodes string escapes before the parser/compiler ever see
	// the literal, so the pool stores (and freezes) the decoded form verbatim.
	p := pool.New()
	ix := p.InternStr("line one\nline two")
	frozen, err := pool.Freeze(p)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", frozen.Strings[ix])
}
