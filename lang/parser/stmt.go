package parser

import (
	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/token"
)

func (p *parser) parseLocalStmt() *ast.LocalStmt {
	var stmt ast.LocalStmt
	stmt.Local = p.expect(token.LOCAL)

	if p.tok == token.FUNCTION {
		// "local function f body" is parsed as "local f = function body", so f
		// is bound only after the function literal and is not in scope inside
		// its own body.
		fn := &ast.FuncExpr{Func: p.expect(token.FUNCTION)}
		stmt.Names = append(stmt.Names, p.parseIdentExpr())
		fn.Body = p.parseFuncBody()
		stmt.Exprs = append(stmt.Exprs, fn)
		return &stmt
	}

	stmt.Names = append(stmt.Names, p.parseIdentExpr())
	for p.tok == token.COMMA {
		stmt.NameCommas = append(stmt.NameCommas, p.expect(token.COMMA))
		stmt.Names = append(stmt.Names, p.parseIdentExpr())
	}

	if p.tok == token.EQ {
		stmt.Assign = p.expect(token.EQ)
		stmt.Exprs, stmt.ExprCommas = p.parseExprList()
	}
	return &stmt
}

// parseIfStmt parses an if/elseif/else chain. elseifPos is zero for the
// top-level "if"; when non-zero, it is the position of the "elseif" keyword
// that was already consumed by the parent call, and this call parses the
// nested chain rooted at that elseif. Only the outermost call consumes the
// terminating "end".
func (p *parser) parseIfStmt(elseifPos token.Pos) *ast.IfStmt {
	var stmt ast.IfStmt
	top := !elseifPos.IsValid()
	if top {
		stmt.If = p.expect(token.IF)
	} else {
		stmt.If = elseifPos
	}

	stmt.Cond = p.parseExpr()
	stmt.Then = p.expect(token.THEN)
	stmt.Body = p.parseBlock(token.ELSEIF, token.ELSE, token.END)

	switch p.tok {
	case token.ELSEIF:
		pos := p.expect(token.ELSEIF)
		stmt.Else = pos
		stmt.ElseIf = p.parseIfStmt(pos)
	case token.ELSE:
		stmt.Else = p.expect(token.ELSE)
		stmt.ElseBody = p.parseBlock(token.END)
	}

	if top {
		stmt.End = p.expect(token.END)
	}
	return &stmt
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	var stmt ast.WhileStmt
	stmt.While = p.expect(token.WHILE)
	stmt.Cond = p.parseExpr()
	stmt.Do = p.expect(token.DO)
	stmt.Body = p.parseBlock(token.END)
	stmt.End = p.expect(token.END)
	return &stmt
}

func (p *parser) parseRepeatStmt() *ast.RepeatStmt {
	var stmt ast.RepeatStmt
	stmt.Repeat = p.expect(token.REPEAT)
	stmt.Body = p.parseBlock(token.UNTIL)
	stmt.Until = p.expect(token.UNTIL)
	stmt.Cond = p.parseExpr()
	return &stmt
}

// parseNumericForStmt parses "for Name = start, stop [, step] do ... end".
// The grammar accepted here has no generic for-in form.
func (p *parser) parseNumericForStmt() *ast.NumericForStmt {
	var stmt ast.NumericForStmt
	stmt.For = p.expect(token.FOR)
	stmt.Name = p.parseIdentExpr()
	p.expect(token.EQ)
	stmt.Start = p.parseExpr()
	p.expect(token.COMMA)
	stmt.Stop = p.parseExpr()
	if p.tok == token.COMMA {
		p.advance()
		stmt.Step = p.parseExpr()
	}
	stmt.Do = p.expect(token.DO)
	stmt.Body = p.parseBlock(token.END)
	stmt.End = p.expect(token.END)
	return &stmt
}

func (p *parser) parseFuncStmt() *ast.FuncStmt {
	var stmt ast.FuncStmt
	stmt.Func = p.expect(token.FUNCTION)
	stmt.Name = p.parseIdentExpr()
	stmt.Body = p.parseFuncBody()
	return &stmt
}

func (p *parser) parseFuncBody() *ast.FuncBody {
	var body ast.FuncBody
	body.Sig = p.parseFuncSignature()
	body.Body = p.parseBlock(token.END)
	body.End = p.expect(token.END)
	return &body
}

func (p *parser) parseFuncSignature() *ast.FuncSignature {
	var sig ast.FuncSignature
	sig.Lparen = p.expect(token.LPAREN)

	for p.tok != token.RPAREN {
		if p.tok == token.DOTDOTDOT {
			if n := len(sig.ParamCommas); n > 0 {
				sig.DotDotTok = sig.ParamCommas[n-1]
			}
			sig.DotDotDot = p.expect(token.DOTDOTDOT)
			break
		}
		sig.Params = append(sig.Params, p.parseIdentExpr())
		if p.tok != token.COMMA {
			break
		}
		sig.ParamCommas = append(sig.ParamCommas, p.expect(token.COMMA))
	}

	sig.Rparen = p.expect(token.RPAREN)
	return &sig
}

// parseReturnLikeStmt parses "return [exprlist] [;]" or "break".
func (p *parser) parseReturnLikeStmt() ast.Stmt {
	if p.tok == token.BREAK {
		return &ast.BreakStmt{Start: p.expect(token.BREAK)}
	}

	var stmt ast.ReturnStmt
	stmt.Return = p.expect(token.RETURN)
	if maybeExprStart(p.tok) {
		stmt.Exprs, stmt.ExprCommas = p.parseExprList()
	}
	if p.tok == token.SEMI {
		p.advance()
	}
	return &stmt
}

func maybeExprStart(tok token.Token) bool {
	if tok.IsUnop() || tok.IsAtom() {
		return true
	}
	switch tok {
	case token.IDENT, token.LPAREN, token.LBRACE, token.FUNCTION, token.DOTDOTDOT:
		return true
	}
	return false
}

// parseExprOrAssignStmt parses either an assignment statement or a bare
// function/method call used as a statement.
func (p *parser) parseExprOrAssignStmt() ast.Stmt {
	expr := p.parseExpr()
	if tokenIn(p.tok, token.COMMA, token.EQ) {
		return p.parseAssignStmt(expr)
	}
	if !ast.IsValidStmt(expr) {
		start, end := expr.Span()
		p.errorExpected(start, "statement")
		return &ast.BadStmt{Start: start, End: end}
	}
	return &ast.ExprStmt{Expr: expr}
}

func (p *parser) parseAssignStmt(firstExpr ast.Expr) *ast.AssignStmt {
	var stmt ast.AssignStmt

	left := []ast.Expr{firstExpr}
	var commas []token.Pos
	for p.tok == token.COMMA {
		commas = append(commas, p.expect(token.COMMA))
		left = append(left, p.parseExpr())
	}

	for _, e := range left {
		if !ast.IsAssignable(e) {
			start, _ := e.Span()
			p.errorExpected(start, "assignable expression")
		}
	}

	stmt.Left = left
	stmt.LeftCommas = commas
	stmt.Assign = p.expect(token.EQ)
	stmt.Right, stmt.RightCommas = p.parseExprList()
	return &stmt
}
