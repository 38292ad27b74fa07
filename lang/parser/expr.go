package parser

import (
	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/token"
)

func (p *parser) parseExpr() ast.Expr {
	return p.parseSubExpr(0)
}

// binopPriority gives the left/right binding power of each binary operator,
// indexed by token.Token. Concat (..) and exponentiation (^) are the only
// right-associative operators (a right power lower than their own left
// power makes a run of the same operator nest to the right).
var (
	binopPriority = [...]struct{ left, right int }{
		token.OR:  {1, 1},
		token.AND: {2, 2},
		token.LT:  {3, 3}, token.GT: {3, 3}, token.LE: {3, 3}, token.GE: {3, 3},
		token.EQEQ: {3, 3}, token.NE: {3, 3},
		token.CONCAT: {9, 8},
		token.PLUS:   {10, 10}, token.MINUS: {10, 10},
		token.STAR: {11, 11}, token.SLASH: {11, 11},
		token.SLASHSLASH: {11, 11}, token.PERCENT: {11, 11},
		token.CIRCUMFLEX: {14, 13},
	}
	unopPriority = 12
)

// parseSubExpr parses an expression where only binary operators with a left
// binding power higher than priority are consumed, implementing precedence
// climbing.
func (p *parser) parseSubExpr(priority int) ast.Expr {
	var left ast.Expr

	if p.tok.IsUnop() {
		var unop ast.UnaryOpExpr
		unop.Type = p.tok
		unop.Op = p.expect(p.tok)
		unop.Right = p.parseSubExpr(unopPriority)
		left = &unop
	} else {
		left = p.parseSimpleExpr()
	}

	return p.parseBinOpRest(left, priority)
}

// parseBinOpRest consumes a (possibly empty) run of binary operators whose
// left binding power is higher than priority, given the already-parsed left
// operand.
func (p *parser) parseBinOpRest(left ast.Expr, priority int) ast.Expr {
	for p.tok.IsBinop() && binopPriority[p.tok].left > priority {
		var bin ast.BinOpExpr
		bin.Left = left
		bin.Type = p.tok
		bin.Op = p.expect(p.tok)
		bin.Right = p.parseSubExpr(binopPriority[bin.Type].right)
		left = &bin
	}
	return left
}

func (p *parser) parseSimpleExpr() ast.Expr {
	switch {
	case p.tok.IsAtom():
		return p.parseAtomExpr()
	case p.tok == token.LBRACE:
		return p.parseTableExpr()
	case p.tok == token.FUNCTION:
		return p.parseFuncExpr()
	case p.tok == token.DOTDOTDOT:
		return &ast.VarargExpr{Start: p.expect(token.DOTDOTDOT)}
	default:
		return p.parseSuffixedExpr()
	}
}

func (p *parser) parseAtomExpr() *ast.LiteralExpr {
	var val any
	switch p.tok {
	case token.INT:
		val = p.val.Int
	case token.FLOAT:
		val = p.val.Float
	case token.STRING:
		val = p.val.Str
	}
	lit := &ast.LiteralExpr{
		Type:  p.tok,
		Raw:   p.val.Raw,
		Value: val,
	}
	lit.Start = p.expect(p.tok)
	return lit
}

func (p *parser) parseTableExpr() *ast.TableExpr {
	var expr ast.TableExpr
	expr.Lbrace = p.expect(token.LBRACE)

	for !tokenIn(p.tok, token.RBRACE, token.EOF) {
		expr.Fields = append(expr.Fields, p.parseTableField())
		if p.tok == token.COMMA || p.tok == token.SEMI {
			// both comma and semicolon separate fields; trailing separator valid
			expr.Commas = append(expr.Commas, p.advanceAndPos())
		} else {
			break
		}
	}

	expr.Rbrace = p.expect(token.RBRACE)
	return &expr
}

// advanceAndPos consumes the current token and returns the position it was
// at, for separators whose exact token (comma or semicolon) does not matter
// to the caller.
func (p *parser) advanceAndPos() token.Pos {
	pos := p.val.Pos
	p.advance()
	return pos
}

func (p *parser) parseTableField() *ast.TableField {
	var fld ast.TableField

	switch {
	case p.tok == token.LBRACK:
		fld.Lbrack = p.expect(token.LBRACK)
		fld.Key = p.parseExpr()
		fld.Rbrack = p.expect(token.RBRACK)
		fld.Assign = p.expect(token.EQ)
		fld.Value = p.parseExpr()
	case p.tok == token.IDENT:
		// `name = value` and a plain `name` expression entry (e.g. `name + 1`)
		// both start with an identifier; consume it first and disambiguate on
		// whether "=" follows, continuing as a suffixed/binary expression
		// otherwise.
		ident := p.parseIdentExpr()
		if p.tok == token.EQ {
			fld.Key = ident
			fld.Assign = p.expect(token.EQ)
			fld.Value = p.parseExpr()
		} else {
			fld.Value = p.parseBinOpRest(p.parseSuffixes(ident), 0)
		}
	default:
		fld.Value = p.parseExpr()
	}
	return &fld
}

func (p *parser) parseFuncExpr() *ast.FuncExpr {
	var expr ast.FuncExpr
	expr.Func = p.expect(token.FUNCTION)
	expr.Body = p.parseFuncBody()
	return &expr
}

// parseSuffixedExpr parses a primary expression (identifier or a
// parenthesized expression) followed by zero or more suffixes: a dotted
// selector, an index, a call or a method call.
func (p *parser) parseSuffixedExpr() ast.Expr {
	var primary ast.Expr
	if p.tok == token.IDENT {
		primary = p.parseIdentExpr()
	} else {
		lparen := p.expect(token.LPAREN)
		inner := p.parseExpr()
		primary = &ast.ParenExpr{
			Lparen: lparen,
			Expr:   inner,
			Rparen: p.expect(token.RPAREN),
		}
	}
	return p.parseSuffixes(primary)
}

func (p *parser) parseSuffixes(primary ast.Expr) ast.Expr {
loop:
	for {
		switch p.tok {
		case token.DOT:
			primary = p.parseDotExpr(primary)
		case token.LBRACK:
			primary = p.parseIndexExpr(primary)
		case token.LPAREN, token.LBRACE, token.STRING:
			primary = p.parseCallExpr(primary, token.NoPos, nil)
		case token.COLON:
			colon := p.expect(token.COLON)
			method := p.parseIdentExpr()
			primary = p.parseCallExpr(primary, colon, method)
		default:
			break loop
		}
	}
	return primary
}

func (p *parser) parseDotExpr(left ast.Expr) *ast.DotExpr {
	var expr ast.DotExpr
	expr.Left = left
	expr.Dot = p.expect(token.DOT)
	expr.Right = p.parseIdentExpr()
	return &expr
}

func (p *parser) parseIndexExpr(prefix ast.Expr) *ast.IndexExpr {
	var expr ast.IndexExpr
	expr.Prefix = prefix
	expr.Lbrack = p.expect(token.LBRACK)
	expr.Index = p.parseExpr()
	expr.Rbrack = p.expect(token.RBRACK)
	return &expr
}

// parseCallExpr parses a call's argument list: "(args)", a single table
// constructor, or a single string literal. colon/method are set when this is
// a method call (obj:m(...)), zero/nil for a plain call.
func (p *parser) parseCallExpr(fn ast.Expr, colon token.Pos, method *ast.IdentExpr) *ast.CallExpr {
	var expr ast.CallExpr
	expr.Fn = fn
	expr.Colon = colon
	expr.Method = method

	switch p.tok {
	case token.LPAREN:
		expr.Lparen = p.expect(token.LPAREN)
		if p.tok != token.RPAREN {
			expr.Args, expr.Commas = p.parseExprList()
		}
		expr.Rparen = p.expect(token.RPAREN)
	case token.LBRACE:
		expr.Args = []ast.Expr{p.parseTableExpr()}
	case token.STRING:
		expr.Args = []ast.Expr{p.parseAtomExpr()}
	default:
		p.expect(token.LPAREN, token.LBRACE, token.STRING)
		panic("unreachable")
	}
	return &expr
}
