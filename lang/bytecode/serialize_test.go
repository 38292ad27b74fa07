package bytecode_test

import (
	"testing"

	"github.com/mna/luma/lang/bytecode"
	"github.com/stretchr/testify/require"
)

func sampleModule() *bytecode.Module {
	main := &bytecode.Function{
		Index:      0,
		RegCount:   2,
		ParamCount: 0,
		IsVararg:   false,
		Children:   []uint32{1},
		Provides: []bytecode.Provide{
			{ChildIndex: 0, Kind: bytecode.ProviderReg, Src: 0, Slot: 0},
			{ChildIndex: 0, Kind: bytecode.ProviderUpval, Src: 1, Slot: 1},
		},
		Instrs: []uint32{
			bytecode.MakeInstr(bytecode.LDI, 0, 0, 0),
			bytecode.MakeExtended(bytecode.JMP, 0, -3),
		},
	}
	child := &bytecode.Function{
		Index:      1,
		RegCount:   1,
		ParamCount: 1,
		IsVararg:   true,
		Instrs:     []uint32{bytecode.MakeInstr(bytecode.RET, 0, 0, 0)},
	}

	return &bytecode.Module{
		Ints:      []int64{1, 2, 3},
		Floats:    []float64{2.0},
		Strings:   []string{"x", "hello world"},
		Functions: []*bytecode.Function{main, child},
		Main:      0,
	}
}

func TestEncodeDecodeRoundTrips(t *testing.T) {
	m := sampleModule()
	data, err := m.Encode()
	require.NoError(t, err)

	got, err := bytecode.Decode(data)
	require.NoError(t, err)

	require.Equal(t, m.Ints, got.Ints)
	require.Equal(t, m.Floats, got.Floats)
	require.Equal(t, m.Strings, got.Strings)
	require.Equal(t, m.Main, got.Main)
	require.Len(t, got.Functions, 2)
	require.Equal(t, m.Functions[0].Instrs, got.Functions[0].Instrs)
	require.Equal(t, m.Functions[0].Provides, got.Functions[0].Provides)
	require.Equal(t, m.Functions[0].Children, got.Functions[0].Children)
	require.Equal(t, m.Functions[1].IsVararg, got.Functions[1].IsVararg)
}

func TestEncodeIsDeterministicAndReencodeMatches(t *testing.T) {
	m := sampleModule()
	data1, err := m.Encode()
	require.NoError(t, err)

	got, err := bytecode.Decode(data1)
	require.NoError(t, err)

	data2, err := got.Encode()
	require.NoError(t, err)
	require.Equal(t, data1, data2)
}

func TestDisassembleIncludesFunctionsAndCode(t *testing.T) {
	out := string(bytecode.Disassemble(sampleModule()))
	require.Contains(t, out, "function: 0")
	require.Contains(t, out, "function: 1")
	require.Contains(t, out, "+varargs")
	require.Contains(t, out, "ldi")
	require.Contains(t, out, "jmp")
}
