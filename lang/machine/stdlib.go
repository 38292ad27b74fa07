package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/luma/lang/value"
)

// installStdlib populates env with the standard library surface spec.md §6
// names: print, assert, and the io and string tables. Every entry is a host
// closure, dispatched through the same Call convention as ordinary Lua
// closures (see value.ClosureVal's Host field).
func installStdlib(th *Thread, env *value.TableVal) {
	env.Set(value.StringVal("print"), value.ClosureValOf(value.NewHostClosure(th.stdPrint)))
	env.Set(value.StringVal("assert"), value.ClosureValOf(value.NewHostClosure(stdAssert)))

	io := value.NewTable(1)
	io.Set(value.StringVal("write"), value.ClosureValOf(value.NewHostClosure(th.ioWrite)))
	env.Set(value.StringVal("io"), value.TableValOf(io))

	str := value.NewTable(1)
	str.Set(value.StringVal("format"), value.ClosureValOf(value.NewHostClosure(stringFormat)))
	env.Set(value.StringVal("string"), value.TableValOf(str))
}

// stdPrint writes the to_string of every argument, tab-separated and
// newline-terminated, to the thread's stdout.
func (th *Thread) stdPrint(args []value.Value) ([]value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(th.stdout, strings.Join(parts, "\t"))
	return nil, nil
}

// stdAssert errors with msg (or "assertion failed!" if msg is absent) when v
// is falsy; otherwise it forwards every argument as its own return values,
// not just v.
func stdAssert(args []value.Value) ([]value.Value, error) {
	var v value.Value
	if len(args) > 0 {
		v = args[0]
	}
	if !v.IsTruthy() {
		msg := "assertion failed!"
		if len(args) > 1 {
			if s, err := args[1].ToGoString(); err == nil {
				msg = s
			}
		}
		return nil, &value.HostError{Msg: msg}
	}
	return args, nil
}

// ioWrite writes the string conversion of every argument to the thread's
// stdout, with no separator and no trailing newline.
func (th *Thread) ioWrite(args []value.Value) ([]value.Value, error) {
	for _, a := range args {
		s, err := a.ToGoString()
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprint(th.stdout, s); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// stringFormat implements the source's %d-only subset of string.format:
// a %d sequence consumes and renders the next argument as an integer; %%
// is a literal percent; any other %-sequence is copied through unchanged,
// consuming no argument, matching the ambiguity noted in spec.md §9.
func stringFormat(args []value.Value) ([]value.Value, error) {
	if len(args) == 0 {
		return []value.Value{value.StringVal("")}, nil
	}
	format, err := args[0].ToGoString()
	if err != nil {
		return nil, err
	}
	rest := args[1:]

	var out strings.Builder
	argIdx := 0
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i == len(format)-1 {
			out.WriteByte(ch)
			continue
		}
		next := format[i+1]
		switch next {
		case '%':
			out.WriteByte('%')
		case 'd':
			var n int64
			if argIdx < len(rest) {
				n, err = rest[argIdx].ToInt()
				if err != nil {
					return nil, err
				}
				argIdx++
			}
			out.WriteString(strconv.FormatInt(n, 10))
		default:
			out.WriteByte('%')
			out.WriteByte(next)
		}
		i++
	}
	return []value.Value{value.StringVal(out.String())}, nil
}
