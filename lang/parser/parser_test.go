package parser_test

import (
	"testing"

	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/parser"
	"github.com/mna/luma/lang/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(src))
	require.NoError(t, err)
	return chunk
}

func TestParseLocalAndAssign(t *testing.T) {
	chunk := parse(t, `local x, y = 1, 2
x = y`)
	require.Len(t, chunk.Block.Stmts, 2)

	local, ok := chunk.Block.Stmts[0].(*ast.LocalStmt)
	require.True(t, ok)
	require.Len(t, local.Names, 2)
	require.Equal(t, "x", local.Names[0].Lit)
	require.Equal(t, "y", local.Names[1].Lit)
	require.Len(t, local.Exprs, 2)

	assign, ok := chunk.Block.Stmts[1].(*ast.AssignStmt)
	require.True(t, ok)
	require.Len(t, assign.Left, 1)
	require.Len(t, assign.Right, 1)
}

func TestParseIfElseIf(t *testing.T) {
	chunk := parse(t, `if a then
  b = 1
elseif c then
  b = 2
else
  b = 3
end`)
	require.Len(t, chunk.Block.Stmts, 1)

	ifStmt, ok := chunk.Block.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifStmt.ElseIf)
	require.Nil(t, ifStmt.ElseBody)
	require.NotNil(t, ifStmt.ElseIf.ElseBody)
	require.True(t, ifStmt.End.IsValid())
	require.False(t, ifStmt.ElseIf.End.IsValid())
}

func TestParseWhileAndRepeat(t *testing.T) {
	chunk := parse(t, `while x do
  x = x - 1
end
repeat
  x = x + 1
until x > 10`)
	require.Len(t, chunk.Block.Stmts, 2)
	_, ok := chunk.Block.Stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	repeat, ok := chunk.Block.Stmts[1].(*ast.RepeatStmt)
	require.True(t, ok)
	require.NotNil(t, repeat.Cond)
}

func TestParseNumericFor(t *testing.T) {
	chunk := parse(t, `for i = 1, 10, 2 do
  print(i)
end`)
	require.Len(t, chunk.Block.Stmts, 1)
	forStmt, ok := chunk.Block.Stmts[0].(*ast.NumericForStmt)
	require.True(t, ok)
	require.Equal(t, "i", forStmt.Name.Lit)
	require.NotNil(t, forStmt.Step)
}

func TestParseFuncStmtVararg(t *testing.T) {
	chunk := parse(t, `function f(a, b, ...)
  return a + b
end`)
	fn, ok := chunk.Block.Stmts[0].(*ast.FuncStmt)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name.Lit)
	require.Len(t, fn.Body.Sig.Params, 2)
	require.True(t, fn.Body.Sig.DotDotDot.IsValid())

	ret, ok := fn.Body.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	require.Len(t, ret.Exprs, 1)
	bin, ok := ret.Exprs[0].(*ast.BinOpExpr)
	require.True(t, ok)
	require.Equal(t, token.PLUS, bin.Type)
}

func TestParseTableConstructor(t *testing.T) {
	chunk := parse(t, `local t = {1, 2, x = 3, [k] = 4}`)
	local := chunk.Block.Stmts[0].(*ast.LocalStmt)
	table, ok := local.Exprs[0].(*ast.TableExpr)
	require.True(t, ok)
	require.Len(t, table.Fields, 4)
	require.Nil(t, table.Fields[0].Key)
	require.Nil(t, table.Fields[1].Key)
	require.NotNil(t, table.Fields[2].Key)
	require.Equal(t, "x", table.Fields[2].Key.(*ast.IdentExpr).Lit)
	require.NotNil(t, table.Fields[3].Key)
}

func TestParseMethodCall(t *testing.T) {
	chunk := parse(t, `obj:method(1, 2)`)
	stmt, ok := chunk.Block.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.Expr.(*ast.CallExpr)
	require.True(t, ok)
	require.NotNil(t, call.Method)
	require.Equal(t, "method", call.Method.Lit)
	require.Len(t, call.Args, 2)
}

func TestParseOperatorPrecedence(t *testing.T) {
	chunk := parse(t, `local x = 1 + 2 * 3 ^ 2 .. "a"`)
	local := chunk.Block.Stmts[0].(*ast.LocalStmt)
	concat, ok := local.Exprs[0].(*ast.BinOpExpr)
	require.True(t, ok)
	require.Equal(t, token.CONCAT, concat.Type)

	add, ok := concat.Left.(*ast.BinOpExpr)
	require.True(t, ok)
	require.Equal(t, token.PLUS, add.Type)

	mul, ok := add.Right.(*ast.BinOpExpr)
	require.True(t, ok)
	require.Equal(t, token.STAR, mul.Type)

	pow, ok := mul.Right.(*ast.BinOpExpr)
	require.True(t, ok)
	require.Equal(t, token.CIRCUMFLEX, pow.Type)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(`local x = )
local y = 1`))
	require.Error(t, err)
	require.Len(t, chunk.Block.Stmts, 2)
	_, ok := chunk.Block.Stmts[0].(*ast.BadStmt)
	require.True(t, ok)
	local, ok := chunk.Block.Stmts[1].(*ast.LocalStmt)
	require.True(t, ok)
	require.Equal(t, "y", local.Names[0].Lit)
}
