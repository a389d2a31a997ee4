package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/compiler"
	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/scanner"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(stdio, args...)
}

// RunFiles compiles and executes each file in turn, each with its own fresh
// VM: globals and the heap are not shared between files.
func RunFiles(stdio mainer.Stdio, files ...string) error {
	var firstErr error
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			printError(stdio, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := runSource(stdio, name, string(src)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func runSource(stdio mainer.Stdio, name, src string) error {
	fn, err := compileSource(src)
	if err != nil {
		return printError(stdio, fmt.Errorf("%s: %w", name, err))
	}
	vm := machine.New(fn, machine.Options{Stdout: stdio.Stdout})
	if err := vm.Run(); err != nil {
		return printError(stdio, fmt.Errorf("%s: %w", name, err))
	}
	return nil
}

func compileSource(src string) (*compiler.Function, error) {
	toks, err := scanner.Scan(src)
	if err != nil {
		return nil, err
	}
	toks = scanner.Morph(toks)
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(prog)
}
