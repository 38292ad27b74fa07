// Package ast defines the types that represent the abstract syntax tree of a
// Lua chunk. It is a quasi-lossless AST: it could recreate the source almost
// exactly, except that semicolons are dropped and whitespace runs are not
// preserved. Comments are not attached to the tree; the parser discards
// COMMENT tokens as it scans.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/luma/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a short description
	// of itself. Supported verbs are 'v' and 's'; the '#' flag adds child
	// counts, a width pads or truncates the label, '-' pads right instead of
	// left, and '+' disables padding.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node

	// BlockEnding reports whether the statement must only appear as the last
	// statement of a block (return, break).
	BlockEnding() bool
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

// Unwrap strips any enclosing ParenExpr, recursively, returning the first
// non-paren expression.
func Unwrap(e Expr) Expr {
	for {
		pe, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = pe.Expr
	}
}

// IsValidStmt reports whether e is a valid ExprStmt expression. Only function
// and method calls are valid statements in Lua.
func IsValidStmt(e Expr) bool {
	_, ok := Unwrap(e).(*CallExpr)
	return ok
}

// IsAssignable reports whether e can appear on the left-hand side of an
// assignment: an identifier, a dotted selector, or an index expression.
func IsAssignable(e Expr) bool {
	switch e := e.(type) {
	case *IdentExpr:
		return true
	case *DotExpr:
		return IsAssignable(Unwrap(e.Left))
	case *IndexExpr:
		return IsAssignable(Unwrap(e.Prefix))
	default:
		return false
	}
}
