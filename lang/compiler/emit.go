package compiler

import (
	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/ir"
)

// flatten concatenates fn's basic blocks into one linear instruction stream,
// resolving each IR instruction's operands to the fixed-width encoding and
// each jump's IR block target to a pc-relative displacement. Phi
// placeholders (already resolved by SubstitutePhis into plain register
// reuse) occupy no instruction word and are skipped here.
func flatten(fn *ir.Func) *bytecode.Function {
	starts := make([]int, len(fn.Blocks))
	pc := 0
	for i, blk := range fn.Blocks {
		starts[i] = pc
		for _, in := range blk.Instrs {
			if !in.Op.IsPhi() {
				pc++
			}
		}
	}

	instrs := make([]uint32, 0, pc)
	cur := 0
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if in.Op.IsPhi() {
				continue
			}
			instrs = append(instrs, encodeInstr(in, starts, cur))
			cur++
		}
	}

	children := make([]uint32, len(fn.Children))
	for i, c := range fn.Children {
		children[i] = uint32(c.Index)
	}

	return &bytecode.Function{
		Index:      uint32(fn.Index),
		RegCount:   uint32(fn.RegCount()),
		ParamCount: uint32(fn.ParamCount),
		IsVararg:   fn.IsVararg,
		Children:   children,
		Provides:   flattenProvides(fn),
		Instrs:     instrs,
	}
}

func encodeInstr(in ir.Instr, blockStarts []int, curPC int) uint32 {
	op := in.Op.Opcode()

	if op.IsJump() {
		reg := byteOf(in.Args[0])
		targetBlock := in.Args[1].Some
		disp := blockStarts[targetBlock] - (curPC + 1)
		return bytecode.MakeExtended(op, reg, int16(disp))
	}
	if op.HasExtendedOperand() { // Ldi, Ldf, Lds, Closure: a 16-bit pool/child index
		reg := byteOf(in.Args[0])
		idx := in.Args[1].Some
		return bytecode.MakeExtended(op, reg, int16(uint16(idx)))
	}

	var bytes [3]uint8
	for i, a := range in.Args {
		if i >= 3 {
			break
		}
		bytes[i] = byteOf(a)
	}
	return bytecode.MakeInstr(op, bytes[0], bytes[1], bytes[2])
}

// byteOf extracts the single byte operand an Arg contributes to an encoded
// instruction: a register index, or an opcode-specific small integer.
func byteOf(a ir.Arg) uint8 {
	if a.IsReg() {
		return uint8(a.Reg)
	}
	return uint8(a.Some)
}

// flattenProvides converts fn's Children-index-keyed provider map into the
// module format's flat, per-entry Provide list, in Children order.
func flattenProvides(fn *ir.Func) []bytecode.Provide {
	var out []bytecode.Provide
	for childIdx := range fn.Children {
		for _, p := range fn.Provides[childIdx] {
			kind := bytecode.ProviderReg
			if p.Source.FromUpval {
				kind = bytecode.ProviderUpval
			}
			out = append(out, bytecode.Provide{
				ChildIndex: uint8(childIdx),
				Kind:       kind,
				Src:        uint8(p.Source.Slot),
				Slot:       uint8(p.UpvalSlot),
			})
		}
	}
	return out
}
