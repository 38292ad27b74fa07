package maincmd

import (
	"context"
	"os"

	"github.com/mna/luma/lang/compiler"
	"github.com/mna/luma/lang/machine"
	"github.com/mna/luma/lang/parser"
	"github.com/mna/luma/lang/scanner"
	"github.com/mna/luma/lang/token"
	"github.com/mna/mainer"
)

// Run parses and compiles each INPUT.lua file in memory and evaluates it,
// per spec.md §6's VM CLI. The files are evaluated one after another; the
// first one that fails to read, parse, compile or run stops the command.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, args...)
}

func RunFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()
	for _, fname := range files {
		if err := runFile(ctx, stdio, fset, fname); err != nil {
			return err
		}
	}
	return nil
}

func runFile(ctx context.Context, stdio mainer.Stdio, fset *token.FileSet, fname string) error {
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

	cfg, err := loadConfig()
	if err != nil {
		return printError(stdio, err)
	}

	th := &machine.Thread{
		Stdout:       stdio.Stdout,
		Stderr:       stdio.Stderr,
		Stdin:        stdio.Stdin,
		MaxCallDepth: cfg.MaxCallDepth,
	}
	if err := th.Run(mod); err != nil {
		return printError(stdio, err)
	}
	return nil
}
