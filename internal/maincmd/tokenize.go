package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans each file and prints its tokens, one per line, in the
// form "line:start-end: kind lexeme".
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
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
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Position, tok.Kind)
			if tok.Lexeme != "" {
				fmt.Fprintf(stdio.Stdout, " %s", tok.Lexeme)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	return firstErr
}
