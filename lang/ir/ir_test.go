package ir_test

import (
	"testing"

	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/ir"
	"github.com/stretchr/testify/require"
)

func TestOpWrapsOpcodeAndPhi(t *testing.T) {
	op := ir.Real(bytecode.ADD)
	require.False(t, op.IsPhi())
	require.Equal(t, bytecode.ADD, op.Opcode())

	require.True(t, ir.Phi.IsPhi())
	require.Panics(t, func() { ir.Phi.Opcode() })
}

func TestReplaceRegsWith(t *testing.T) {
	in := ir.Instr{Op: ir.Real(bytecode.ADD), Args: []ir.Arg{ir.RegArg(1), ir.RegArg(2), ir.RegArg(3)}}
	in.ReplaceRegsWith([]int{2, 3}, 9)
	require.Equal(t, ir.RegArg(1), in.Args[0])
	require.Equal(t, ir.RegArg(9), in.Args[1])
	require.Equal(t, ir.RegArg(9), in.Args[2])
}

func TestReplaceRegsWithIgnoresNonRegArgs(t *testing.T) {
	in := ir.Instr{Op: ir.Real(bytecode.LDI), Args: []ir.Arg{ir.RegArg(1), ir.IntArg(5)}}
	in.ReplaceRegsWith([]int{5}, 9) // 5 is an Int arg value, not a register
	require.Equal(t, ir.IntArg(5), in.Args[1])
}

func TestBasicBlockPush(t *testing.T) {
	var blk ir.BasicBlock
	blk.Push(ir.Real(bytecode.LDN), ir.RegArg(0))
	require.Len(t, blk.Instrs, 1)
	require.Equal(t, bytecode.LDN, blk.Instrs[0].Op.Opcode())
}

func TestFuncBlocksAndChildren(t *testing.T) {
	f := ir.NewFunc(0, 2, false)
	require.Equal(t, 0, f.RegCount())

	f.RegMap.PushBlock()
	f.RegMap.CreateReg("_ENV")
	require.Equal(t, 1, f.RegCount())

	bi := f.CreateBlock()
	require.Equal(t, 0, bi)
	f.Block(bi).Push(ir.Real(bytecode.LDN), ir.RegArg(0))

	child := ir.NewFunc(1, 0, false)
	idx := f.AddChild(child)
	require.Equal(t, 0, idx)
	f.AddProvider(idx, ir.RegSource(1), 0)
	require.Equal(t, []ir.Provider{{Source: ir.RegSource(1), UpvalSlot: 0}}, f.Provides[0])
}

func TestSubstitutePhisRewritesPriorAndOwnBlock(t *testing.T) {
	f := ir.NewFunc(0, 0, false)
	b0 := f.CreateBlock()
	b1 := f.CreateBlock()

	// block 0: r1 = 1, r2 = 2 (two candidate providers for a merge)
	f.Block(b0).Push(ir.Real(bytecode.LDI), ir.RegArg(1), ir.SomeArg(0))
	f.Block(b0).Push(ir.Real(bytecode.LDI), ir.RegArg(2), ir.SomeArg(1))

	// block 1: phi(r3, r1, r2); use r3 afterwards
	f.Block(b1).Push(ir.Phi, ir.RegArg(3), ir.RegArg(1), ir.RegArg(2))
	f.Block(b1).Push(ir.Real(bytecode.MOV), ir.RegArg(4), ir.RegArg(3))
	// and a use of source r2 in the phi's own block
	f.Block(b1).Push(ir.Real(bytecode.MOV), ir.RegArg(5), ir.RegArg(2))

	ir.SubstitutePhis(f)

	// the phi's own argument list is erased
	require.Empty(t, f.Block(b1).Instrs[0].Args)
	// downstream use of r3 in the phi's own block is untouched (dst, not src)
	require.Equal(t, ir.RegArg(3), f.Block(b1).Instrs[1].Args[1])
	// sources in the prior block now read the phi's destination
	require.Equal(t, ir.RegArg(3), f.Block(b0).Instrs[0].Args[0])
	require.Equal(t, ir.RegArg(3), f.Block(b0).Instrs[1].Args[0])
	// and so does the source in the phi's own block
	require.Equal(t, ir.RegArg(3), f.Block(b1).Instrs[2].Args[1])
}
