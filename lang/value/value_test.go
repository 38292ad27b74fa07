package value_test

import (
	"testing"

	"github.com/mna/luma/lang/value"
	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	require.False(t, value.Value{}.IsTruthy()) // zero Value is Nil
	require.False(t, value.IntVal(0).IsTruthy()) // false compiles to Int(0), so Int(0) is falsy
	require.True(t, value.IntVal(1).IsTruthy())
	require.True(t, value.StringVal("").IsTruthy())
}

func TestToInt(t *testing.T) {
	n, err := value.IntVal(42).ToInt()
	require.NoError(t, err)
	require.EqualValues(t, 42, n)

	_, err = value.FloatVal(1.5).ToInt()
	require.Error(t, err)

	_, err = value.FloatVal(2.0).ToInt()
	require.Error(t, err) // Float -> Int always fails, even without a fractional part

	n, err = value.StringVal("7").ToInt()
	require.NoError(t, err)
	require.EqualValues(t, 7, n)

	_, err = value.StringVal("abc").ToInt()
	require.Error(t, err)
}

func TestToFloat(t *testing.T) {
	f, err := value.IntVal(2).ToFloat()
	require.NoError(t, err)
	require.Equal(t, 2.0, f)

	f, err = value.StringVal("3.5").ToFloat()
	require.NoError(t, err)
	require.Equal(t, 3.5, f)

	_, err = value.StringVal("nope").ToFloat()
	require.Error(t, err)

	tbl := value.TableValOf(value.NewTable(0))
	_, err = tbl.ToFloat()
	require.Error(t, err)
}

func TestEquals(t *testing.T) {
	require.True(t, value.Value{}.Equals(value.Value{})) // Nil == Nil
	require.True(t, value.IntVal(1).Equals(value.FloatVal(1.0)))
	require.False(t, value.IntVal(1).Equals(value.StringVal("1")))
	require.True(t, value.StringVal("a").Equals(value.StringVal("a")))
	require.False(t, value.StringVal("a").Equals(value.StringVal("b")))

	tbl := value.NewTable(0)
	require.True(t, value.TableValOf(tbl).Equals(value.TableValOf(tbl)))
	require.False(t, value.TableValOf(tbl).Equals(value.TableValOf(value.NewTable(0))))
}

func TestCompare(t *testing.T) {
	c, err := value.IntVal(1).Compare(value.FloatVal(2.0))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = value.StringVal("a").Compare(value.StringVal("b"))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	_, err = value.IntVal(1).Compare(value.StringVal("1"))
	require.Error(t, err)

	_, err = value.Value{}.Compare(value.IntVal(1))
	require.Error(t, err)

	_, err = value.TableValOf(value.NewTable(0)).Compare(value.TableValOf(value.NewTable(0)))
	require.Error(t, err)
}

func TestTableGetSet(t *testing.T) {
	tbl := value.NewTable(0)
	require.Equal(t, value.Value{}, tbl.Get(value.StringVal("missing")))

	tbl.Set(value.StringVal("x"), value.IntVal(1))
	require.True(t, tbl.Get(value.StringVal("x")).Equals(value.IntVal(1)))
	require.Equal(t, 1, tbl.Len())

	tbl.Delete(value.StringVal("x"))
	require.Equal(t, 0, tbl.Len())
}

func TestClosureUpvalSlotZeroReservedForEnv(t *testing.T) {
	c := value.NewClosure(0, 2, 1, false, 3)
	require.Len(t, c.Upvals, 3)
	env := value.TableValOf(value.NewTable(0))
	c.Upvals[0] = env
	require.True(t, c.Upvals[0].Equals(env))
}

func TestStringRendering(t *testing.T) {
	require.Equal(t, "nil", value.Value{}.String())
	require.Equal(t, "42", value.IntVal(42).String())
	require.Equal(t, "2.5", value.FloatVal(2.5).String())
	require.Equal(t, "hi", value.StringVal("hi").String())
}
