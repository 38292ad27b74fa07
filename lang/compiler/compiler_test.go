package compiler_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/compiler"
	"github.com/mna/luma/lang/parser"
	"github.com/mna/luma/lang/token"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *bytecode.Module {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(src))
	require.NoError(t, err)

	mod, err := compiler.Compile(fset.File(chunk.EOF), chunk)
	require.NoError(t, err)
	return mod
}

func TestCompileSimpleAssignment(t *testing.T) {
	mod := compile(t, `x = 1`)
	require.Len(t, mod.Functions, 1)
	require.Equal(t, []int64{1}, mod.Ints)

	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "ldi")
	require.Contains(t, out, "setupattr 0 1 0")
}

func TestCompileArithmetic(t *testing.T) {
	mod := compile(t, `x = 1 + 2`)
	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "add")
}

func TestCompileFloatLiteral(t *testing.T) {
	mod := compile(t, `x = 2.0`)
	require.Equal(t, []float64{2.0}, mod.Floats)
	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "ldf")
}

func TestCompileCallWithStringAndIntArgs(t *testing.T) {
	mod := compile(t, `print(1, "a")`)
	require.Equal(t, []string{"print", "a"}, mod.Strings)

	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "settop")
	require.Contains(t, out, "push")
	require.Contains(t, out, "call")
}

func TestCompileFunctionDefinitionAndCall(t *testing.T) {
	mod := compile(t, `
local function add(a, b)
	return a + b
end
x = add(1, 2)
`)
	require.Len(t, mod.Functions, 2)

	child := mod.Functions[1]
	require.EqualValues(t, 2, child.ParamCount)
	require.False(t, child.IsVararg)

	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "closure")
	require.Contains(t, out, "ret")
}

func TestCompileVarargForwarding(t *testing.T) {
	mod := compile(t, `
local function f(...)
	return ...
end
`)
	child := mod.Functions[1]
	require.True(t, child.IsVararg)

	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "vararg")
}

func TestCompileNestedClosureCapturesUpvalue(t *testing.T) {
	mod := compile(t, `
local function outer()
	local x = 1
	local function inner()
		return x
	end
	return inner
end
`)
	require.Len(t, mod.Functions, 3)

	outer := mod.Functions[1]
	require.Len(t, outer.Provides, 1)
	require.Equal(t, bytecode.ProviderReg, outer.Provides[0].Kind)

	inner := mod.Functions[2]
	out := string(bytecode.Disassemble(mod))
	_ = inner
	require.Contains(t, out, "getupval")
}

func TestCompileAndOrShortCircuitUsesPhi(t *testing.T) {
	mod := compile(t, `x = 1 and 2`)
	out := string(bytecode.Disassemble(mod))
	// the Phi itself never reaches the flattened module; only its substituted
	// effect (both branches writing the merged register) does.
	require.Contains(t, out, "jmpne")
}

func TestCompileIfElseif(t *testing.T) {
	mod := compile(t, `
if x == 1 then
	y = 1
elseif x == 2 then
	y = 2
else
	y = 3
end
`)
	out := string(bytecode.Disassemble(mod))
	require.Equal(t, 2, strings.Count(out, "jmpne"))
}

func TestCompileWhileLoopWithBreak(t *testing.T) {
	mod := compile(t, `
while x < 10 do
	x = x + 1
	if x == 5 then
		break
	end
end
`)
	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "jmp ")
}

func TestCompileNumericFor(t *testing.T) {
	mod := compile(t, `
for i = 1, 10 do
	y = i
end
`)
	out := string(bytecode.Disassemble(mod))
	require.Contains(t, out, "le")
}

func TestCompileDescendingNumericForRejected(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(`
for i = 10, 1, -1 do
	y = i
end
`))
	require.NoError(t, err)

	_, err = compiler.Compile(fset.File(chunk.EOF), chunk)
	require.Error(t, err)
}

func TestCompileZeroStepNumericForRejected(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(`
for i = 1, 10, 0 do
	y = i
end
`))
	require.NoError(t, err)

	_, err = compiler.Compile(fset.File(chunk.EOF), chunk)
	require.Error(t, err)
}

func TestCompileConcatUnsupported(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(`x = "a" .. "b"`))
	require.NoError(t, err)

	_, err = compiler.Compile(fset.File(chunk.EOF), chunk)
	require.Error(t, err)
}

func TestCompileRegisterLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("local a")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" = 1\n")
	}

	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(b.String()))
	require.NoError(t, err)

	_, err = compiler.Compile(fset.File(chunk.EOF), chunk)
	require.Error(t, err)
}
