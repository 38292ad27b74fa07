package machine_test

import (
	"bytes"
	"testing"

	"github.com/mna/luma/lang/compiler"
	"github.com/mna/luma/lang/machine"
	"github.com/mna/luma/lang/parser"
	"github.com/mna/luma/lang/token"
	"github.com/mna/luma/lang/value"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(src))
	require.NoError(t, err)

	mod, err := compiler.Compile(fset.File(chunk.EOF), chunk)
	require.NoError(t, err)

	var stdout bytes.Buffer
	th := &machine.Thread{Stdout: &stdout}
	err = th.Run(mod)
	return stdout.String(), err
}

func TestPrintScalars(t *testing.T) {
	out, err := run(t, `print(1, "a")`)
	require.NoError(t, err)
	require.Equal(t, "1\ta\n", out)
}

func TestAssignmentAndGlobalRead(t *testing.T) {
	out, err := run(t, `x = 1
print(x)`)
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestFunctionCallAndArithmetic(t *testing.T) {
	out, err := run(t, `function f(a, b) return a + b end
print(f(2, 3))`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestVarargForwarding(t *testing.T) {
	out, err := run(t, `function f(...) return ... end
print(f(1, 2, 3))`)
	require.NoError(t, err)
	require.Equal(t, "1\t2\t3\n", out)
}

func TestRecursiveFunction(t *testing.T) {
	out, err := run(t, `function fact(n)
  if n <= 1 then
    return 1
  end
  return n * fact(n - 1)
end
print(fact(5))`)
	require.NoError(t, err)
	require.Equal(t, "120\n", out)
}

func TestClosureCapturesLocal(t *testing.T) {
	out, err := run(t, `function counter()
  local n = 0
  return function()
    n = n + 1
    return n
  end
end
local c = counter()
print(c(), c(), c())`)
	require.NoError(t, err)
	require.Equal(t, "1\t2\t3\n", out)
}

func TestAssertFailureRaises(t *testing.T) {
	_, err := run(t, `assert(nil, "boom")`)
	require.Error(t, err)
	require.Equal(t, "boom", err.Error())
}

func TestAssertSuccessForwardsValue(t *testing.T) {
	out, err := run(t, `print(assert(1))`)
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestIoWriteHasNoSeparatorOrNewline(t *testing.T) {
	out, err := run(t, `io.write("a", "b", "c")`)
	require.NoError(t, err)
	require.Equal(t, "abc", out)
}

func TestStringFormatOnlySupportsD(t *testing.T) {
	out, err := run(t, `print(string.format("%d-%x", 7, 8))`)
	require.NoError(t, err)
	require.Equal(t, "7-%x\n", out)
}

func TestDivisionIsAlwaysFloat(t *testing.T) {
	out, err := run(t, `print(4 / 2)`)
	require.NoError(t, err)
	require.Equal(t, "2\n", out)
}

func TestFloorDivOnNegativeInts(t *testing.T) {
	out, err := run(t, `print(-7 // 2)`)
	require.NoError(t, err)
	require.Equal(t, "-4\n", out)
}

func TestIntegerFloorDivByZeroRaises(t *testing.T) {
	_, err := run(t, `local x = 1 // 0`)
	require.Error(t, err)
	require.IsType(t, &value.DivByZeroError{}, err)
}

func TestIntegerModByZeroRaises(t *testing.T) {
	_, err := run(t, `local x = 1 % 0`)
	require.Error(t, err)
	require.IsType(t, &value.DivByZeroError{}, err)
}

func TestSiblingClosuresShareMutatedUpvalue(t *testing.T) {
	out, err := run(t, `local n = 0
local function inc() n = n + 1 end
local function get() return n end
inc()
inc()
print(get())`)
	require.NoError(t, err)
	require.Equal(t, "2\n", out)
}

func TestEnclosingFunctionObservesInnerClosureMutation(t *testing.T) {
	out, err := run(t, `local n = 0
local function inc() n = n + 1 end
inc()
inc()
inc()
print(n)`)
	require.NoError(t, err)
	require.Equal(t, "3\n", out)
}

func TestOrderingAcrossTableRaises(t *testing.T) {
	_, err := run(t, `local t = {}
print(t < 1)`)
	require.Error(t, err)
}

func TestTableFieldAccess(t *testing.T) {
	out, err := run(t, `local t = {}
t.x = 42
print(t.x)`)
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestMaxCallDepthTrips(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.lua", []byte(`function loop(n) return loop(n + 1) end
loop(0)`))
	require.NoError(t, err)
	mod, err := compiler.Compile(fset.File(chunk.EOF), chunk)
	require.NoError(t, err)

	var stdout bytes.Buffer
	th := &machine.Thread{Stdout: &stdout, MaxCallDepth: 8}
	err = th.Run(mod)
	require.Error(t, err)
	require.IsType(t, &machine.CallDepthError{}, err)
}
