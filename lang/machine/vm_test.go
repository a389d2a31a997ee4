package machine_test

import (
	"bytes"
	"testing"

	"github.com/mna/wisp/lang/compiler"
	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/scanner"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, err := scanner.Scan(src)
	require.NoError(t, err)
	toks = scanner.Morph(toks)
	exprs, err := parser.Parse(toks)
	require.NoError(t, err)
	fn, err := compiler.Compile(exprs)
	require.NoError(t, err)

	var out bytes.Buffer
	vm := machine.New(fn, machine.Options{Stdout: &out})
	return out.String(), vm.Run()
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want string
	}{
		{"precedence", "puts 1 + 2 * 3\n", "7\n"},
		{"parens", "puts (10 - 4) / 2\n", "3\n"},
		{"globals", "x = 5\ny = x / 2\nputs y\nputs x\n", "2.5\n5\n"},
		{"function call", "def sq(n) do puts n * n end\nsq(6)\n", "36\n"},
		// Policy (B) from the language design (assignment declares a new
		// local on first use inside an open scope) means the block's `x`
		// shadows and then disappears at end of scope, leaving the global
		// untouched: `puts x` here reads the outer binding, still 1.
		{"block scoping", "x = 1\ndo x = 2 end\nputs x\n", "1\n"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got, err := run(t, c.src)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestUndefinedGlobal(t *testing.T) {
	_, err := run(t, "def add(a, b) do puts a + b end\nadd(2, add_is_not_called_yet)\n")
	require.Error(t, err)
	var target *machine.UndefinedGlobalError
	require.ErrorAs(t, err, &target)
	require.Equal(t, "add_is_not_called_yet", target.Name)
}

func TestTypeMismatch(t *testing.T) {
	_, err := run(t, "puts true + 1\n")
	require.Error(t, err)
	var target *machine.TypeMismatchError
	require.ErrorAs(t, err, &target)
	require.Equal(t, compiler.OpAdd, target.Op)
	require.Equal(t, "bool", target.Kind)
}

func TestArityMismatch(t *testing.T) {
	_, err := run(t, "def f(a) do puts a end\nf(1, 2)\n")
	require.Error(t, err)
	var target *machine.ArityMismatchError
	require.ErrorAs(t, err, &target)
	require.Equal(t, 1, target.Expected)
	require.Equal(t, 2, target.Got)
}

func TestNotCallable(t *testing.T) {
	_, err := run(t, "x = 1\nx(2)\n")
	require.Error(t, err)
	var target *machine.NotCallableError
	require.ErrorAs(t, err, &target)
	require.Equal(t, "number", target.Kind)
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"puts 1 == 1\n", "true\n"},
		{"puts 1 != 1\n", "false\n"},
		{"puts 1 < 2\n", "true\n"},
		{"puts 2 <= 2\n", "true\n"},
		{"puts 3 > 2\n", "true\n"},
		{"puts 2 >= 3\n", "false\n"},
	}
	for _, c := range cases {
		got, err := run(t, c.src)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestDivisionByZeroProducesInf(t *testing.T) {
	got, err := run(t, "puts 1 / 0\n")
	require.NoError(t, err)
	require.Equal(t, "+Inf\n", got)
}

func TestRoundTripLiteral(t *testing.T) {
	got, err := run(t, "puts 3.14\n")
	require.NoError(t, err)
	require.Equal(t, "3.14\n", got)
}

func TestGarbageCollection(t *testing.T) {
	toks, err := scanner.Scan("def f() do puts 1 end\nf()\nf()\nf()\n")
	require.NoError(t, err)
	toks = scanner.Morph(toks)
	exprs, err := parser.Parse(toks)
	require.NoError(t, err)
	fn, err := compiler.Compile(exprs)
	require.NoError(t, err)

	var out bytes.Buffer
	vm := machine.New(fn, machine.Options{Stdout: &out, GCThreshold: -1})
	require.NoError(t, vm.Run())
	require.Equal(t, 2, vm.Heap().Len()) // script closure + f's closure

	vm.CollectGarbage()
	require.Equal(t, 2, vm.Heap().Len())
}

func TestStackOverflow(t *testing.T) {
	_, err := run(t, "def rec(n) do rec(n) end\nrec(1)\n")
	require.ErrorIs(t, err, machine.ErrStackOverflow)
}
