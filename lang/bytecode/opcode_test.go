package bytecode_test

import (
	"testing"

	"github.com/mna/luma/lang/bytecode"
	"github.com/stretchr/testify/require"
)

func TestMakeInstrRoundTrips(t *testing.T) {
	for _, a := range []uint8{0, 1, 17, 255} {
		for _, b := range []uint8{0, 3, 200, 255} {
			for _, c := range []uint8{0, 9, 128, 255} {
				instr := bytecode.MakeInstr(bytecode.ADD, a, b, c)
				op, da, db, dc := bytecode.Decode(instr)
				require.Equal(t, bytecode.ADD, op)
				require.Equal(t, a, da)
				require.Equal(t, b, db)
				require.Equal(t, c, dc)
			}
		}
	}
}

func TestMakeExtendedRoundTrips(t *testing.T) {
	for _, arg := range []int16{0, 1, -1, 32767, -32768, 12345} {
		instr := bytecode.MakeExtended(bytecode.JMP, 7, arg)
		op, a, darg := bytecode.DecodeExtended(instr)
		require.Equal(t, bytecode.JMP, op)
		require.Equal(t, uint8(7), a)
		require.Equal(t, arg, darg)
	}
}

func TestOpcodeString(t *testing.T) {
	require.Equal(t, "add", bytecode.ADD.String())
	require.Equal(t, "ldt", bytecode.LDT.String())
	require.Contains(t, bytecode.Opcode(200).String(), "illegal")
}

func TestIsJump(t *testing.T) {
	for _, op := range []bytecode.Opcode{bytecode.JMP, bytecode.JMPNE, bytecode.JMPEQ} {
		require.True(t, op.IsJump())
	}
	for _, op := range []bytecode.Opcode{bytecode.ADD, bytecode.CALL, bytecode.MOV} {
		require.False(t, op.IsJump())
	}
}
