package parser

import (
	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/token"
)

func (p *parser) parseChunk() *ast.Chunk {
	var chunk ast.Chunk
	chunk.Block = p.parseBlock()
	chunk.EOF = p.expect(token.EOF)
	return &chunk
}

func (p *parser) parseBlock(endToks ...token.Token) *ast.Block {
	var block ast.Block
	var list []ast.Stmt

	block.Start = p.val.Pos

	// EOF is always an end token
	endToks = append(endToks, token.EOF)

	var ending ast.Stmt
	var endingReported bool
	for !tokenIn(p.tok, endToks...) {
		if stmt := p.parseStmt(); stmt != nil {
			if ending != nil {
				if !endingReported {
					pos, _ := stmt.Span()
					p.errorExpected(pos, "end of block")
					endingReported = true
				}
			} else if stmt.BlockEnding() {
				ending = stmt
			}
			list = append(list, stmt)
		}
	}

	block.Stmts = list
	block.End = p.val.Pos
	return &block
}

// parseStmt parses a single statement, or returns nil for a statement to
// skip (the ";" statement).
func (p *parser) parseStmt() (stmt ast.Stmt) {
	start := p.val.Pos

	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				// synchronize to the next safe point and generate a BadStmt for the
				// interval.
				stmt = &ast.BadStmt{
					Start: start,
					End:   p.syncAfterError(),
				}
				return
			}
			panic(err)
		}
	}()

	switch p.tok {
	case token.SEMI:
		// ignore empty statements
		p.advance()
		return nil

	case token.LOCAL:
		return p.parseLocalStmt()

	case token.IF:
		return p.parseIfStmt(token.NoPos)

	case token.WHILE:
		return p.parseWhileStmt()

	case token.REPEAT:
		return p.parseRepeatStmt()

	case token.FOR:
		return p.parseNumericForStmt()

	case token.FUNCTION:
		return p.parseFuncStmt()

	case token.RETURN, token.BREAK:
		return p.parseReturnLikeStmt()

	default:
		// func/method call, or assignment
		return p.parseExprOrAssignStmt()
	}
}

func (p *parser) parseIdentExpr() *ast.IdentExpr {
	var exp ast.IdentExpr
	exp.Lit = p.val.Raw
	exp.Start = p.expect(token.IDENT)
	return &exp
}

func (p *parser) parseExprList() ([]ast.Expr, []token.Pos) {
	var exprs []ast.Expr
	var commas []token.Pos

	exprs = append(exprs, p.parseExpr())
	for p.tok == token.COMMA {
		commas = append(commas, p.expect(token.COMMA))
		exprs = append(exprs, p.parseExpr())
	}
	return exprs, commas
}

type syncMode int

const (
	syncAfter syncMode = iota
	syncAt
)

// syncToks lists the tokens that are safe to resynchronize a parse error to.
// FUNCTION is not included because it can appear mid-statement (e.g.
// `x = function() ... end`), so stopping there could skip recovery entirely;
// every syncAt entry here only ever starts a statement, and the syncAfter
// entries (";" and "end") only ever end one.
var syncToks = map[token.Token]syncMode{
	token.SEMI:   syncAfter,
	token.END:    syncAfter,
	token.IF:     syncAt,
	token.WHILE:  syncAt,
	token.REPEAT: syncAt,
	token.FOR:    syncAt,
	token.RETURN: syncAt,
	token.BREAK:  syncAt,
	token.LOCAL:  syncAt,
}

func (p *parser) syncAfterError() token.Pos {
	for p.tok != token.EOF {
		if mode, ok := syncToks[p.tok]; ok {
			if mode == syncAfter {
				p.advance()
				if p.tok == token.EOF {
					// EOF is 1 past the end of the file
					return p.val.Pos - 1
				}
			}
			return p.val.Pos
		}
		p.advance()
	}
	return p.val.Pos - 1 // EOF is 1 past the end of the file
}
