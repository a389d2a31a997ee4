package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/machine"
)

func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return Repl(stdio)
}

// Repl reads lines from stdio.Stdin, compiling and running each as its own
// top-level script against a single VM: each line starts with a fresh
// operand stack but keeps the globals and heap from every prior line.
func Repl(stdio mainer.Stdio) error {
	var vm *machine.VM
	scan := bufio.NewScanner(stdio.Stdin)
	for scan.Scan() {
		line := scan.Text()
		if line == "" {
			continue
		}
		fn, err := compileSource(line + "\n")
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			continue
		}
		if vm == nil {
			vm = machine.New(fn, machine.Options{Stdout: stdio.Stdout})
			if err := vm.Run(); err != nil {
				fmt.Fprintf(stdio.Stderr, "%s\n", err)
			}
			continue
		}
		if err := vm.RunScript(fn); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
		}
	}
	return scan.Err()
}
