package ast

import (
	"fmt"

	"github.com/mna/luma/lang/token"
)

type (
	// BadExpr represents an expression that failed to parse.
	BadExpr struct {
		Start token.Pos
		End   token.Pos
	}

	// BinOpExpr represents a binary expression, e.g. x + y.
	BinOpExpr struct {
		Left  Expr
		Type  token.Token // binary operator token type
		Op    token.Pos
		Right Expr
	}

	// CallExpr represents a function call, e.g. f(a, b), or a method call,
	// e.g. obj:m(a, b), in which case Method and Colon are set and Fn is the
	// receiver expression (obj).
	CallExpr struct {
		Fn     Expr
		Colon  token.Pos  // zero unless this is a method call
		Method *IdentExpr // non-nil for a method call
		Lparen token.Pos
		Args   []Expr
		Commas []token.Pos // len(Args)-1
		Rparen token.Pos
	}

	// DotExpr represents a selector expression, e.g. x.y.
	DotExpr struct {
		Left  Expr
		Dot   token.Pos
		Right *IdentExpr
	}

	// FuncSignature describes a function's parameter list.
	FuncSignature struct {
		Lparen      token.Pos
		Params      []*IdentExpr
		ParamCommas []token.Pos // len(Params)-1
		DotDotTok   token.Pos   // comma before "...", zero if no params precede it
		DotDotDot   token.Pos   // zero if not variadic
		Rparen      token.Pos
	}

	// FuncBody is the shared shape of a function declaration's signature and
	// block, used by both FuncStmt (named) and FuncExpr (anonymous).
	FuncBody struct {
		Sig  *FuncSignature
		Body *Block
		End  token.Pos
	}

	// FuncExpr represents an anonymous function literal.
	FuncExpr struct {
		Func token.Pos
		Body *FuncBody
	}

	// IdentExpr represents an identifier.
	IdentExpr struct {
		Start token.Pos
		Lit   string
	}

	// IndexExpr represents an index expression, e.g. x[y].
	IndexExpr struct {
		Prefix Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// LiteralExpr represents a nil, boolean, string, integer or float literal.
	LiteralExpr struct {
		Type  token.Token // NIL, TRUE, FALSE, STRING, INT or FLOAT
		Start token.Pos
		Raw   string      // uninterpreted source text
		Value interface{} // string | int64 | float64, nil for nil/true/false
	}

	// TableField represents one entry of a table constructor. Exactly one of
	// the three forms applies: Key set and Lbrack valid for `[expr] = value`,
	// Key set and Lbrack invalid for `name = value`, or Key nil for a plain
	// array-style `value` entry.
	TableField struct {
		Lbrack token.Pos // valid only for the `[expr] = value` form
		Key    Expr      // nil for a plain array-style entry
		Rbrack token.Pos
		Assign token.Pos // valid when Key != nil
		Value  Expr
	}

	// TableExpr represents a table constructor, e.g. {1, 2, x = 3, [k] = 4}.
	TableExpr struct {
		Lbrace token.Pos
		Fields []*TableField
		Commas []token.Pos // at least len(Fields)-1, can be len(Fields)
		Rbrace token.Pos
	}

	// ParenExpr represents an expression wrapped in parentheses. Parens around
	// a multi-value expression truncate it to its first value.
	ParenExpr struct {
		Lparen token.Pos
		Expr   Expr
		Rparen token.Pos
	}

	// UnaryOpExpr represents a unary operator expression (e.g. -x, not x, #x).
	UnaryOpExpr struct {
		Type  token.Token
		Op    token.Pos
		Right Expr
	}

	// VarargExpr represents the "..." expression inside a variadic function.
	VarargExpr struct {
		Start token.Pos
	}
)

func (n *BadExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad expr!", nil) }
func (n *BadExpr) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadExpr) Walk(_ Visitor)                {}
func (n *BadExpr) expr()                         {}

func (n *BinOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Type.GoString(), nil)
}
func (n *BinOpExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinOpExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinOpExpr) expr() {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	lbl := "call"
	if n.Method != nil {
		lbl = "method call " + n.Method.Lit
	}
	format(f, verb, n, lbl, map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Fn.Span()
	switch {
	case n.Rparen.IsValid():
		end = n.Rparen + token.Pos(len(token.RPAREN.String()))
	case len(n.Args) > 0:
		_, end = n.Args[len(n.Args)-1].Span()
	default:
		_, end = n.Fn.Span()
	}
	return start, end
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	if n.Method != nil {
		Walk(v, n.Method)
	}
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *CallExpr) expr() {}

func (n *DotExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr.ident", nil) }
func (n *DotExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *DotExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *DotExpr) expr() {}

func (n *FuncExpr) Format(f fmt.State, verb rune) {
	lbl := "fn"
	if n.Body.Sig.DotDotDot.IsValid() {
		lbl += " ..."
	}
	format(f, verb, n, lbl, map[string]int{"params": len(n.Body.Sig.Params)})
}
func (n *FuncExpr) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Func, end
}
func (n *FuncExpr) Walk(v Visitor) {
	for _, p := range n.Body.Sig.Params {
		Walk(v, p)
	}
	Walk(v, n.Body.Body)
}
func (n *FuncExpr) expr() {}

func (n *FuncBody) Format(f fmt.State, verb rune) { format(f, verb, n, "fn body", nil) }
func (n *FuncBody) Span() (start, end token.Pos) {
	start = n.Sig.Lparen
	return start, n.End + token.Pos(len(token.END.String()))
}
func (n *FuncBody) Walk(v Visitor) {
	for _, p := range n.Sig.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Lit, nil) }
func (n *IdentExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Lit))
}
func (n *IdentExpr) Walk(_ Visitor) {}
func (n *IdentExpr) expr()          {}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index]", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Prefix.Span()
	return start, n.Rbrack + token.Pos(len(token.RBRACK.String()))
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Prefix)
	Walk(v, n.Index)
}
func (n *IndexExpr) expr() {}

func (n *LiteralExpr) Format(f fmt.State, verb rune) {
	if n.Value == nil {
		format(f, verb, n, n.Type.String(), nil)
	} else {
		format(f, verb, n, n.Type.String()+" "+n.Raw, nil)
	}
}
func (n *LiteralExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *LiteralExpr) Walk(_ Visitor) {}
func (n *LiteralExpr) expr()          {}

func (n *TableExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "table", map[string]int{"fields": len(n.Fields)})
}
func (n *TableExpr) Span() (start, end token.Pos) {
	return n.Lbrace, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *TableExpr) Walk(v Visitor) {
	for _, fld := range n.Fields {
		if fld.Key != nil {
			Walk(v, fld.Key)
		}
		Walk(v, fld.Value)
	}
}
func (n *TableExpr) expr() {}

func (n *ParenExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "(expr)", nil) }
func (n *ParenExpr) Span() (start, end token.Pos) {
	return n.Lparen, n.Rparen + token.Pos(len(token.RPAREN.String()))
}
func (n *ParenExpr) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *ParenExpr) expr()          {}

func (n *UnaryOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Type.GoString(), nil)
}
func (n *UnaryOpExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.Op, end
}
func (n *UnaryOpExpr) Walk(v Visitor) { Walk(v, n.Right) }
func (n *UnaryOpExpr) expr()          {}

func (n *VarargExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "...", nil) }
func (n *VarargExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(token.DOTDOTDOT.String()))
}
func (n *VarargExpr) Walk(_ Visitor) {}
func (n *VarargExpr) expr()          {}
