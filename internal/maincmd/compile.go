package maincmd

import (
	"context"
	"os"
	"strings"

	"github.com/mna/luma/lang/compiler"
	"github.com/mna/luma/lang/parser"
	"github.com/mna/luma/lang/scanner"
	"github.com/mna/luma/lang/token"
	"github.com/mna/mainer"
)

// Compile reads each INPUT.lua file, parses and compiles it, and writes the
// resulting bytecode module to INPUT.luabc next to the input, per spec.md
// §6's compiler CLI.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, args...)
}

func CompileFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()
	for _, fname := range files {
		if err := compileFile(ctx, stdio, fset, fname); err != nil {
			return err
		}
	}
	return nil
}

func compileFile(ctx context.Context, stdio mainer.Stdio, fset *token.FileSet, fname string) error {
	src, err := os.ReadFile(fname)
	if err != nil {
		return printError(stdio, err)
	}

	chunk, err := parser.ParseChunk(fset, fname, src)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return err
	}

	mod, err := compiler.Compile(fset.File(chunk.EOF), chunk)
	if err != nil {
		return printError(stdio, err)
	}

	enc, err := mod.Encode()
	if err != nil {
		return printError(stdio, err)
	}

	out := outputPath(fname)
	if err := os.WriteFile(out, enc, 0o644); err != nil {
		return printError(stdio, err)
	}
	return nil
}

// outputPath replaces a ".lua" suffix with ".luabc", or appends ".luabc" if
// the input doesn't carry the expected extension.
func outputPath(fname string) string {
	if strings.HasSuffix(fname, ".lua") {
		return strings.TrimSuffix(fname, ".lua") + ".luabc"
	}
	return fname + ".luabc"
}
