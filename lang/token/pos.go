package token

import "strconv"

// Pos is a compact encoding of a source position: an offset into the
// concatenation of every file added to a FileSet. The zero value, NoPos, is
// a valid Pos with no file or line/column information.
type Pos int32

// NoPos is the zero value for Pos; it means "unknown position".
const NoPos Pos = 0

// IsValid reports whether p is not NoPos.
func (p Pos) IsValid() bool {
	return p != NoPos
}

// Spanner is implemented by AST nodes (and other positioned values) that
// cover a range of source positions.
type Spanner interface {
	Span() (start, end Pos)
}

// PosInside reports whether test's span is entirely contained within ref's
// span (inclusive on both ends).
func PosInside(ref, test Spanner) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	return rs <= ts && te <= re
}

// PosAdjacent reports whether ref and test sit close enough together, in
// terms of source lines, to be considered part of the same unit of
// formatting (e.g. when deciding whether a comment trails or leads a
// statement). Overlapping spans are always adjacent. A non-overlapping span
// that starts after ref must share ref's last line; one that ends before ref
// must end on ref's line or the one immediately preceding it.
func PosAdjacent(ref, test Spanner, file *File) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	if rs <= te && ts <= re {
		return true
	}
	if ts > re {
		return file.Line(re) == file.Line(ts)
	}
	return file.Line(rs)-file.Line(te) <= 1
}

// PosMode controls how FormatPos renders a Pos.
type PosMode int

const (
	// PosNone renders nothing.
	PosNone PosMode = iota
	// PosRaw renders the raw Pos integer value.
	PosRaw
	// PosOffsets renders the 0-based byte offset of the position within its
	// file.
	PosOffsets
	// PosLong renders "file:line:col".
	PosLong
)

func (m PosMode) String() string {
	switch m {
	case PosNone:
		return "none"
	case PosRaw:
		return "raw"
	case PosOffsets:
		return "offsets"
	case PosLong:
		return "long"
	default:
		return "invalid"
	}
}

// FormatPos renders pos according to mode. When showFilename is false, the
// file name is omitted from PosLong output but the colons are kept, so the
// result remains parseable.
func FormatPos(mode PosMode, file *File, pos Pos, showFilename bool) string {
	switch mode {
	case PosRaw:
		return strconv.Itoa(int(pos))
	case PosOffsets:
		if pos == NoPos {
			return "-"
		}
		return strconv.Itoa(file.Offset(pos))
	case PosLong:
		name := ""
		if showFilename {
			name = file.Name()
		}
		if pos == NoPos {
			return name + ":-:-"
		}
		line, col := file.Position(pos)
		return name + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(col)
	default:
		return ""
	}
}
