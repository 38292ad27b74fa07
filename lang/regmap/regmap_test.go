package regmap_test

import (
	"testing"

	"github.com/mna/luma/lang/regmap"
	"github.com/stretchr/testify/require"
)

func TestNewRegIncrementsCounter(t *testing.T) {
	m := regmap.New()
	m.PushBlock()
	for i := 0; i < 10; i++ {
		require.Equal(t, i, m.NewReg())
	}
	require.Equal(t, 10, m.RegCount())
}

func TestCreateRegMapsNamesToRegisters(t *testing.T) {
	m := regmap.New()
	m.PushBlock()

	require.Equal(t, 0, m.NewReg())
	require.Equal(t, 1, m.CreateReg("foo"))
	reg, ok := m.GetReg("foo")
	require.True(t, ok)
	require.Equal(t, 1, reg)
	_, ok = m.GetReg("bar")
	require.False(t, ok)

	// a nested block shadows the outer "foo"
	m.PushBlock()
	require.Equal(t, 2, m.CreateReg("foo"))
	reg, ok = m.GetReg("foo")
	require.True(t, ok)
	require.Equal(t, 2, reg)
	_, ok = m.GetReg("bar")
	require.False(t, ok)

	m.PopBlock()
	// popping the block restores visibility of the outer binding, and
	// reg_count does not shrink
	reg, ok = m.GetReg("foo")
	require.True(t, ok)
	require.Equal(t, 1, reg)
	_, ok = m.GetReg("bar")
	require.False(t, ok)
	require.Equal(t, 3, m.RegCount())
}

func TestRegistersRetrievedInNestingOrder(t *testing.T) {
	m := regmap.New()
	m.PushBlock()
	for i := 0; i < 3; i++ {
		m.PushBlock()
		m.CreateReg("foo")
	}
	for i := 0; i < 3; i++ {
		reg, ok := m.GetReg("foo")
		require.True(t, ok)
		require.Equal(t, 2-i, reg)
		m.PopBlock()
	}
}

func TestIsLocal(t *testing.T) {
	m := regmap.New()
	m.PushBlock()
	require.False(t, m.IsLocal("x"))
	m.CreateReg("x")
	require.True(t, m.IsLocal("x"))
}
