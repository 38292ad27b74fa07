package bytecode

import (
	"bytes"
	"fmt"
)

// Disassemble writes m's functions and instructions in a human-readable
// textual form, one function per block, instructions in encounter order
// with their decoded operands. Intended for debugging and golden-file
// tests, not for round-tripping back into a Module.
func Disassemble(m *Module) []byte {
	var buf bytes.Buffer
	d := dasm{buf: &buf}

	d.writef("ints: %v\n", m.Ints)
	d.writef("floats: %v\n", m.Floats)
	d.writef("strings: %v\n", m.Strings)
	d.writef("main: %d\n", m.Main)

	for _, fn := range m.Functions {
		d.write("\n")
		d.function(fn)
	}

	return buf.Bytes()
}

type dasm struct {
	buf *bytes.Buffer
}

func (d *dasm) write(s string) {
	d.buf.WriteString(s)
}

func (d *dasm) writef(format string, args ...interface{}) {
	fmt.Fprintf(d.buf, format, args...)
}

func (d *dasm) function(fn *Function) {
	d.writef("function: %d regs=%d params=%d", fn.Index, fn.RegCount, fn.ParamCount)
	if fn.IsVararg {
		d.write(" +varargs")
	}
	d.write("\n")

	if len(fn.Children) > 0 {
		d.write("\tchildren:\n")
		for i, c := range fn.Children {
			d.writef("\t\t%d\t# %03d\n", c, i)
		}
	}

	if len(fn.Provides) > 0 {
		d.write("\tprovides:\n")
		for _, p := range fn.Provides {
			kind := "reg"
			if p.Kind == ProviderUpval {
				kind = "upval"
			}
			d.writef("\t\tchild %d <- %s %d -> slot %d\n", p.ChildIndex, kind, p.Src, p.Slot)
		}
	}

	d.write("\tcode:\n")
	for i, raw := range fn.Instrs {
		op, a, b, c := Decode(raw)
		if op.HasExtendedOperand() {
			_, a2, arg := DecodeExtended(raw)
			d.writef("\t\t%03d\t%s %d %d\n", i, op, a2, arg)
			continue
		}
		d.writef("\t\t%03d\t%s %d %d %d\n", i, op, a, b, c)
	}
}
