package ast

import (
	"fmt"

	"github.com/mna/luma/lang/token"
)

type (
	// LocalStmt represents a local variable declaration, e.g. local x, y = 1, 2.
	// Assign and Exprs are zero/nil when the declaration has no initializer.
	// "local function f() ... end" is represented with f as the only name and
	// the function literal as the only expression, with Assign zero.
	LocalStmt struct {
		Local      token.Pos
		Names      []*IdentExpr
		NameCommas []token.Pos // len(Names)-1
		Assign     token.Pos   // zero if no initializer
		Exprs      []Expr
		ExprCommas []token.Pos // len(Exprs)-1
	}

	// AssignStmt represents an assignment statement, e.g. x, y = 1, 2. Each
	// entry in Left is guaranteed to be an *IdentExpr, *DotExpr or *IndexExpr.
	AssignStmt struct {
		Left        []Expr
		LeftCommas  []token.Pos // len(Left)-1
		Assign      token.Pos
		Right       []Expr
		RightCommas []token.Pos // len(Right)-1
	}

	// BadStmt represents a statement that failed to parse.
	BadStmt struct {
		Start token.Pos
		End   token.Pos
	}

	// ExprStmt represents an expression used as a statement, which is only
	// valid for function and method calls (possibly wrapped in parens).
	ExprStmt struct {
		Expr Expr
	}

	// IfStmt represents an if/elseif/else chain. ElseIf, when non-nil, is the
	// nested IfStmt for an "elseif" clause; ElseBody, when non-nil, is the
	// block of a trailing plain "else". At most one of the two is set.
	IfStmt struct {
		If       token.Pos
		Cond     Expr
		Then     token.Pos
		Body     *Block
		Else     token.Pos // pos of "else"/"elseif", zero if absent
		ElseIf   *IfStmt
		ElseBody *Block
		End      token.Pos // pos of "end", only set on the outermost IfStmt
	}

	// WhileStmt represents a while/do/end loop.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Do    token.Pos
		Body  *Block
		End   token.Pos
	}

	// RepeatStmt represents a repeat/until loop. Unlike while, Cond is
	// evaluated in the scope of Body, so it can reference locals declared
	// there.
	RepeatStmt struct {
		Repeat token.Pos
		Body   *Block
		Until  token.Pos
		Cond   Expr
	}

	// NumericForStmt represents a numeric for loop:
	// for Name = Start, Stop[, Step] do ... end. Step is nil when omitted
	// (defaults to 1).
	NumericForStmt struct {
		For   token.Pos
		Name  *IdentExpr
		Start Expr
		Stop  Expr
		Step  Expr // may be nil
		Do    token.Pos
		Body  *Block
		End   token.Pos
	}

	// FuncStmt represents a named function declaration: function name(...) ... end.
	FuncStmt struct {
		Func token.Pos
		Name *IdentExpr
		Body *FuncBody
	}

	// ReturnStmt represents a return statement, with zero or more expressions.
	ReturnStmt struct {
		Return     token.Pos
		Exprs      []Expr
		ExprCommas []token.Pos // len(Exprs)-1
	}

	// BreakStmt represents a break statement, valid only inside a loop.
	BreakStmt struct {
		Start token.Pos
	}
)

func (n *LocalStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "local decl", map[string]int{"names": len(n.Names)})
}
func (n *LocalStmt) Span() (start, end token.Pos) {
	_, end = n.Names[len(n.Names)-1].Span()
	if len(n.Exprs) > 0 {
		_, end = n.Exprs[len(n.Exprs)-1].Span()
	}
	return n.Local, end
}
func (n *LocalStmt) Walk(v Visitor) {
	for _, name := range n.Names {
		Walk(v, name)
	}
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}
func (n *LocalStmt) BlockEnding() bool { return false }

func (n *AssignStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "assignment", map[string]int{"left": len(n.Left), "right": len(n.Right)})
}
func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Left[0].Span()
	_, end = n.Right[len(n.Right)-1].Span()
	return start, end
}
func (n *AssignStmt) Walk(v Visitor) {
	for _, e := range n.Left {
		Walk(v, e)
	}
	for _, e := range n.Right {
		Walk(v, e)
	}
}
func (n *AssignStmt) BlockEnding() bool { return false }

func (n *BadStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad stmt!", nil) }
func (n *BadStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadStmt) Walk(_ Visitor)                {}
func (n *BadStmt) BlockEnding() bool             { return false }

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.Expr.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.Expr) }
func (n *ExprStmt) BlockEnding() bool             { return false }

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Else.IsValid() {
		if n.ElseIf != nil {
			lbl = "if elseif"
		} else {
			lbl = "if else"
		}
	}
	format(f, verb, n, lbl, nil)
}
func (n *IfStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	if n.ElseIf != nil {
		_, end = n.ElseIf.Span()
	}
	if n.ElseBody != nil {
		_, end = n.ElseBody.Span()
	}
	if n.End.IsValid() {
		end = n.End + token.Pos(len(token.END.String()))
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
	if n.ElseIf != nil {
		Walk(v, n.ElseIf)
	}
	if n.ElseBody != nil {
		Walk(v, n.ElseBody)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	return n.While, n.End + token.Pos(len(token.END.String()))
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }

func (n *RepeatStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "repeat", nil) }
func (n *RepeatStmt) Span() (start, end token.Pos) {
	_, end = n.Cond.Span()
	return n.Repeat, end
}
func (n *RepeatStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	Walk(v, n.Cond)
}
func (n *RepeatStmt) BlockEnding() bool { return false }

func (n *NumericForStmt) Format(f fmt.State, verb rune) {
	var clauses int
	if n.Step != nil {
		clauses = 3
	} else {
		clauses = 2
	}
	format(f, verb, n, "for", map[string]int{"clauses": clauses})
}
func (n *NumericForStmt) Span() (start, end token.Pos) {
	return n.For, n.End + token.Pos(len(token.END.String()))
}
func (n *NumericForStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Start)
	Walk(v, n.Stop)
	if n.Step != nil {
		Walk(v, n.Step)
	}
	Walk(v, n.Body)
}
func (n *NumericForStmt) BlockEnding() bool { return false }

func (n *FuncStmt) Format(f fmt.State, verb rune) {
	lbl := "fn decl"
	if n.Body.Sig.DotDotDot.IsValid() {
		lbl += " ..."
	}
	format(f, verb, n, lbl, map[string]int{"params": len(n.Body.Sig.Params)})
}
func (n *FuncStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Func, end
}
func (n *FuncStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Body)
}
func (n *FuncStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "return", map[string]int{"exprs": len(n.Exprs)})
}
func (n *ReturnStmt) Span() (start, end token.Pos) {
	end = n.Return + token.Pos(len(token.RETURN.String()))
	if len(n.Exprs) > 0 {
		_, end = n.Exprs[len(n.Exprs)-1].Span()
	}
	return n.Return, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(token.BREAK.String()))
}
func (n *BreakStmt) Walk(_ Visitor)    {}
func (n *BreakStmt) BlockEnding() bool { return true }
