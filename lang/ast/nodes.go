package ast

import (
	"fmt"
	"os"
	"strings"

	"github.com/mna/luma/lang/token"
)

type (
	// Chunk represents a whole compilation unit: a sequence of statements
	// optionally associated with a filename. It is otherwise the same as
	// Block, but keeps track of the EOF position, so that an empty chunk
	// still has a valid span.
	Chunk struct {
		// Name is the filename, which may be empty if the chunk is not a file.
		Name string

		// Block is the block of statements contained in the chunk.
		Block *Block
		EOF   token.Pos // position of the EOF marker
	}

	// Block represents a sequence of statements delimited by a keyword pair
	// such as do/end, then/end, or the chunk itself.
	Block struct {
		Start token.Pos
		End   token.Pos
		Stmts []Stmt
	}
)

func (n *Chunk) Format(f fmt.State, verb rune) {
	lbl := "chunk"
	if n.Name != "" {
		lbl += " " + strings.ReplaceAll(n.Name, string(os.PathSeparator), "/")
	}
	format(f, verb, n, lbl, nil)
}
func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
