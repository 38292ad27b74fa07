package ast_test

import (
	"testing"

	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/token"
	"github.com/stretchr/testify/require"
)

func TestLocalStmtSpan(t *testing.T) {
	name := &ast.IdentExpr{Start: 7, Lit: "x"}
	lit := &ast.LiteralExpr{Type: token.INT, Start: 11, Raw: "1", Value: int64(1)}
	stmt := &ast.LocalStmt{
		Local:  1,
		Names:  []*ast.IdentExpr{name},
		Assign: 9,
		Exprs:  []ast.Expr{lit},
	}

	start, end := stmt.Span()
	require.Equal(t, token.Pos(1), start)
	require.Equal(t, token.Pos(12), end)
	require.False(t, stmt.BlockEnding())
}

func TestIfStmtElseIfSpan(t *testing.T) {
	cond := &ast.IdentExpr{Start: 4, Lit: "x"}
	body := &ast.Block{Start: 10, End: 10}
	elseCond := &ast.IdentExpr{Start: 20, Lit: "y"}
	elseBody := &ast.Block{Start: 25, End: 25}

	nested := &ast.IfStmt{
		If:   15,
		Cond: elseCond,
		Then: 22,
		Body: elseBody,
	}
	outer := &ast.IfStmt{
		If:     1,
		Cond:   cond,
		Then:   6,
		Body:   body,
		Else:   15,
		ElseIf: nested,
		End:    30,
	}

	_, end := outer.Span()
	require.Equal(t, token.Pos(33), end) // 30 + len("end")
}

func TestWalkVisitsChildren(t *testing.T) {
	a := &ast.IdentExpr{Start: 1, Lit: "a"}
	b := &ast.IdentExpr{Start: 3, Lit: "b"}
	bin := &ast.BinOpExpr{Left: a, Type: token.PLUS, Op: 2, Right: b}

	var visited []ast.Node
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitEnter {
			visited = append(visited, n)
		}
		return ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
			if dir == ast.VisitEnter {
				visited = append(visited, n)
			}
			return nil
		})
	}), bin)

	require.Len(t, visited, 3) // bin, then its two children
}

func TestIsAssignableAndIsValidStmt(t *testing.T) {
	ident := &ast.IdentExpr{Start: 1, Lit: "t"}
	idx := &ast.IndexExpr{Prefix: ident, Index: &ast.LiteralExpr{Type: token.INT, Raw: "1", Value: int64(1)}}
	require.True(t, ast.IsAssignable(ident))
	require.True(t, ast.IsAssignable(idx))
	require.False(t, ast.IsAssignable(&ast.LiteralExpr{Type: token.INT}))

	call := &ast.CallExpr{Fn: ident}
	paren := &ast.ParenExpr{Expr: call}
	require.True(t, ast.IsValidStmt(call))
	require.True(t, ast.IsValidStmt(paren))
	require.False(t, ast.IsValidStmt(ident))
}
