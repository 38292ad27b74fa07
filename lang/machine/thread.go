// Package machine implements the register-based virtual machine that
// executes a bytecode.Module: the dispatch loop, the calling convention
// (register save/restore, argument staging, return-value distribution), and
// the standard library installed into _ENV at startup.
package machine

import (
	"io"
	"os"

	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/value"
)

// maxRegs is the size of the shared register file. Every function's
// reg_count must stay under this (lang/compiler.LimitError enforces it at
// compile time), since a register index is a single byte operand.
const maxRegs = 256

// Thread is one virtual machine instance. It is strictly single-threaded and
// not re-entrant: one Thread owns its register file, stack, frame list and
// _ENV for the lifetime of a single Run call. There is no cancellation
// mechanism and no step budget; a Thread either runs to completion or
// returns an error, per the concurrency model's "no operation suspends"
// rule.
type Thread struct {
	// Stdout, Stderr and Stdin back the standard library's print/io.write. If
	// nil, os.Stdout/os.Stderr/os.Stdin are used.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxCallDepth bounds the depth of nested Lua calls, a safety net against
	// runaway non-tail recursion exhausting the Go call stack that backs the
	// VM's own call nesting. A value <= 0 means no limit.
	MaxCallDepth int

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	module *bytecode.Module
	env    *value.TableVal

	registers [maxRegs]value.Value
	stack     []value.Value
	frames    []frame
	depth     int
}

func (th *Thread) init() {
	if th.stdout == nil {
		if th.Stdout != nil {
			th.stdout = th.Stdout
		} else {
			th.stdout = os.Stdout
		}
	}
	if th.stderr == nil {
		if th.Stderr != nil {
			th.stderr = th.Stderr
		} else {
			th.stderr = os.Stderr
		}
	}
	if th.stdin == nil {
		if th.Stdin != nil {
			th.stdin = th.Stdin
		} else {
			th.stdin = os.Stdin
		}
	}
}

// Run installs the standard library into a fresh _ENV and executes m's main
// function to completion. It returns the first runtime error encountered, if
// any; termination otherwise occurs on Ret from the main function or on
// bytecode exhaustion.
func (th *Thread) Run(m *bytecode.Module) error {
	th.init()
	th.module = m
	th.env = value.NewTable(0)
	installStdlib(th, th.env)

	mainFn := m.Functions[m.Main]
	main := value.NewClosure(int(mainFn.Index), int(mainFn.RegCount), int(mainFn.ParamCount), mainFn.IsVararg, 1)
	main.Upvals[0] = value.TableValOf(th.env)

	_, err := th.dispatch(main, nil)
	return err
}
