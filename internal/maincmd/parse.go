package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/scanner"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args...)
}

// ParseFiles scans and parses each file and prints the resulting abstract
// syntax tree.
func ParseFiles(stdio mainer.Stdio, files ...string) error {
	printer := ast.Printer{Output: stdio.Stdout}

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
		toks, err := scanner.Scan(string(src))
		if err != nil {
			printError(stdio, fmt.Errorf("%s: %w", name, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		toks = scanner.Morph(toks)
		prog, err := parser.Parse(toks)
		if err != nil {
			printError(stdio, fmt.Errorf("%s: %w", name, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := printer.Print(prog); err != nil {
			printError(stdio, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
