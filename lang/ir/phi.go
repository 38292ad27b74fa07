package ir

// SubstitutePhis resolves every Phi placeholder left by lowering f's body:
// for each Phi(dst, src1, src2, ...) found in block b, every occurrence of
// src1, src2, ... in blocks 0..=b (including the block holding the phi) is
// rewritten to read dst instead, and the phi's argument list is erased. Runs
// once per function, after that function's whole body has been lowered, so
// that a phi in an outer block can still see substitutions made by a phi in
// an inner block lowered earlier.
func SubstitutePhis(f *Func) {
	for b, blk := range f.Blocks {
		for i := range blk.Instrs {
			in := &blk.Instrs[i]
			if !in.Op.IsPhi() {
				continue
			}

			dst := in.Args[0].Reg
			var srcs []int
			for _, a := range in.Args[1:] {
				if a.IsReg() {
					srcs = append(srcs, a.Reg)
				}
			}

			for bb := 0; bb <= b; bb++ {
				for j := range f.Blocks[bb].Instrs {
					if bb == b && j == i {
						continue
					}
					f.Blocks[bb].Instrs[j].ReplaceRegsWith(srcs, dst)
				}
			}

			in.Args = nil
		}
	}
}
