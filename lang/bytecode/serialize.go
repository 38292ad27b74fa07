package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Encode serialises m into the fixed little-endian layout described by the
// external bytecode file format: length-prefixed constant tables followed by
// one record per function carrying its index, counts, children list,
// provides map, and instruction vector. Decoding the result with Decode
// reproduces m structurally, and re-encoding that reproduces these exact
// bytes.
func (m *Module) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := writeU32(&buf, uint32(len(m.Ints))); err != nil {
		return nil, err
	}
	for _, v := range m.Ints {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	if err := writeU32(&buf, uint32(len(m.Floats))); err != nil {
		return nil, err
	}
	for _, v := range m.Floats {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	if err := writeU32(&buf, uint32(len(m.Strings))); err != nil {
		return nil, err
	}
	for _, s := range m.Strings {
		if err := writeU32(&buf, uint32(len(s))); err != nil {
			return nil, err
		}
		if _, err := buf.WriteString(s); err != nil {
			return nil, err
		}
	}

	if err := writeU32(&buf, uint32(len(m.Functions))); err != nil {
		return nil, err
	}
	for _, fn := range m.Functions {
		if err := encodeFunction(&buf, fn); err != nil {
			return nil, err
		}
	}

	if err := writeU32(&buf, m.Main); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeFunction(buf *bytes.Buffer, fn *Function) error {
	if err := writeU32(buf, fn.Index); err != nil {
		return err
	}
	if err := writeU32(buf, fn.RegCount); err != nil {
		return err
	}
	if err := writeU32(buf, fn.ParamCount); err != nil {
		return err
	}
	vararg := uint8(0)
	if fn.IsVararg {
		vararg = 1
	}
	if err := buf.WriteByte(vararg); err != nil {
		return err
	}

	if err := writeU32(buf, uint32(len(fn.Children))); err != nil {
		return err
	}
	for _, c := range fn.Children {
		if err := writeU32(buf, c); err != nil {
			return err
		}
	}

	grouped := groupProvides(fn.Provides)
	if err := writeU32(buf, uint32(len(grouped))); err != nil {
		return err
	}
	for _, g := range grouped {
		if err := buf.WriteByte(g.childID); err != nil {
			return err
		}
		if err := writeU32(buf, uint32(len(g.entries))); err != nil {
			return err
		}
		for _, e := range g.entries {
			if err := buf.WriteByte(uint8(e.Kind)); err != nil {
				return err
			}
			if err := buf.WriteByte(e.Src); err != nil {
				return err
			}
			if err := buf.WriteByte(e.Slot); err != nil {
				return err
			}
		}
	}

	if err := writeU32(buf, uint32(len(fn.Instrs))); err != nil {
		return err
	}
	for _, ins := range fn.Instrs {
		if err := writeU32(buf, ins); err != nil {
			return err
		}
	}
	return nil
}

type provideGroup struct {
	childID uint8
	entries []Provide
}

// groupProvides bundles fn.Provides (a flat list, each entry carrying its own
// ChildIndex) by child index, preserving first-seen order, to match the wire
// format's per-child grouping.
func groupProvides(provides []Provide) []provideGroup {
	var groups []provideGroup
	index := make(map[uint8]int)
	for _, p := range provides {
		i, ok := index[p.ChildIndex]
		if !ok {
			i = len(groups)
			index[p.ChildIndex] = i
			groups = append(groups, provideGroup{childID: p.ChildIndex})
		}
		groups[i].entries = append(groups[i].entries, p)
	}
	return groups
}

func writeU32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// Decode parses a byte stream produced by Encode back into a Module.
func Decode(data []byte) (*Module, error) {
	r := bytes.NewReader(data)
	m := &Module{}

	nInts, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading int count: %w", err)
	}
	m.Ints = make([]int64, nInts)
	for i := range m.Ints {
		if err := binary.Read(r, binary.LittleEndian, &m.Ints[i]); err != nil {
			return nil, fmt.Errorf("bytecode: reading int %d: %w", i, err)
		}
	}

	nFloats, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading float count: %w", err)
	}
	m.Floats = make([]float64, nFloats)
	for i := range m.Floats {
		if err := binary.Read(r, binary.LittleEndian, &m.Floats[i]); err != nil {
			return nil, fmt.Errorf("bytecode: reading float %d: %w", i, err)
		}
	}

	nStrings, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading string count: %w", err)
	}
	m.Strings = make([]string, nStrings)
	for i := range m.Strings {
		slen, err := readU32(r)
		if err != nil {
			return nil, fmt.Errorf("bytecode: reading string %d length: %w", i, err)
		}
		b := make([]byte, slen)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("bytecode: reading string %d: %w", i, err)
		}
		m.Strings[i] = string(b)
	}

	nFuncs, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading function count: %w", err)
	}
	m.Functions = make([]*Function, nFuncs)
	for i := range m.Functions {
		fn, err := decodeFunction(r)
		if err != nil {
			return nil, fmt.Errorf("bytecode: reading function %d: %w", i, err)
		}
		m.Functions[i] = fn
	}

	main, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading main function index: %w", err)
	}
	m.Main = main

	return m, nil
}

func decodeFunction(r *bytes.Reader) (*Function, error) {
	fn := &Function{}

	var err error
	if fn.Index, err = readU32(r); err != nil {
		return nil, err
	}
	if fn.RegCount, err = readU32(r); err != nil {
		return nil, err
	}
	if fn.ParamCount, err = readU32(r); err != nil {
		return nil, err
	}
	vararg, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	fn.IsVararg = vararg != 0

	nChildren, err := readU32(r)
	if err != nil {
		return nil, err
	}
	fn.Children = make([]uint32, nChildren)
	for i := range fn.Children {
		if fn.Children[i], err = readU32(r); err != nil {
			return nil, err
		}
	}

	nProvides, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nProvides; i++ {
		childID, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		n, err := readU32(r)
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < n; j++ {
			kind, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			src, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			slot, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			fn.Provides = append(fn.Provides, Provide{
				ChildIndex: childID,
				Kind:       ProviderKind(kind),
				Src:        src,
				Slot:       slot,
			})
		}
	}

	nInstrs, err := readU32(r)
	if err != nil {
		return nil, err
	}
	fn.Instrs = make([]uint32, nInstrs)
	for i := range fn.Instrs {
		if fn.Instrs[i], err = readU32(r); err != nil {
			return nil, err
		}
	}

	return fn, nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
