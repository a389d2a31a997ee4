package compiler_test

import (
	"testing"

	"github.com/mna/wisp/lang/compiler"
	"github.com/mna/wisp/lang/parser"
	"github.com/mna/wisp/lang/scanner"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, src string) *compiler.Function {
	t.Helper()
	toks, err := scanner.Scan(src)
	require.NoError(t, err)
	toks = scanner.Morph(toks)
	exprs, err := parser.Parse(toks)
	require.NoError(t, err)
	fn, err := compiler.Compile(exprs)
	require.NoError(t, err)
	return fn
}

func TestCompileArithmetic(t *testing.T) {
	fn := compileSource(t, "puts 1 + 2 * 3\n")
	require.Equal(t, uint8(0), fn.Arity)
	require.Equal(t, "", fn.Name)
	require.Contains(t, fn.Chunk.Code, byte(compiler.OpMultiply))
	require.Contains(t, fn.Chunk.Code, byte(compiler.OpAdd))
	require.Contains(t, fn.Chunk.Code, byte(compiler.OpPuts))
	// script ends with an implicit Return, no trailing Pop after Puts
	require.Equal(t, byte(compiler.OpReturn), fn.Chunk.Code[len(fn.Chunk.Code)-1])
}

func TestCompileGlobalAssignLeavesPop(t *testing.T) {
	fn := compileSource(t, "x = 5\n")
	// Constant 0 (the value), SetGlobal 1 (the name's constant index), Pop, Return
	require.Equal(t, []byte{
		byte(compiler.OpConstant), 0,
		byte(compiler.OpSetGlobal), 1,
		byte(compiler.OpPop),
		byte(compiler.OpReturn),
	}, fn.Chunk.Code)
	require.Equal(t, compiler.Number(5), fn.Chunk.Constants[0])
	require.Equal(t, compiler.String("x"), fn.Chunk.Constants[1])
}

func TestCompileFunctionDeclaration(t *testing.T) {
	fn := compileSource(t, "def sq(n) do puts n * n end\n")
	require.Equal(t, byte(compiler.OpClosure), fn.Chunk.Code[0])
	require.Equal(t, byte(compiler.OpPop), fn.Chunk.Code[len(fn.Chunk.Code)-2])

	require.Len(t, fn.Chunk.Constants, 2)
	inner, ok := fn.Chunk.Constants[0].(*compiler.Function)
	require.True(t, ok)
	require.Equal(t, "sq", inner.Name)
	require.Equal(t, uint8(1), inner.Arity)
	require.Contains(t, inner.Chunk.Code, byte(compiler.OpGetLocal))
	require.Contains(t, inner.Chunk.Code, byte(compiler.OpMultiply))
	require.Contains(t, inner.Chunk.Code, byte(compiler.OpPuts))
}

func TestCompileBlockScoping(t *testing.T) {
	fn := compileSource(t, "x = 1\ndo x = 2 end\nputs x\n")
	pops := 0
	for _, b := range fn.Chunk.Code {
		if b == byte(compiler.OpPop) {
			pops++
		}
	}
	// one Pop for the global `x = 1` statement, one emitted by end_scope
	// for the block's shadowing local `x`.
	require.Equal(t, 2, pops)
}

func TestCompileFunctionBodyLocalIsPoppedBeforeReturn(t *testing.T) {
	// The body compiles as its own nested block (a scope distinct from the
	// parameter scope), so a local it declares is popped by its own
	// end_scope well before Return fires, leaving only the parameter scope
	// behind.
	fn := compileSource(t, "def f(n) do y = n * 2\nputs y\nend\n")
	inner, ok := fn.Chunk.Constants[0].(*compiler.Function)
	require.True(t, ok)
	// last two bytes: the body's end_scope Pop for `y`, then Return.
	require.Equal(t, byte(compiler.OpPop), inner.Chunk.Code[len(inner.Chunk.Code)-2])
	require.Equal(t, byte(compiler.OpReturn), inner.Chunk.Code[len(inner.Chunk.Code)-1])
}

func TestCompileSecondAssignInBlockReassigns(t *testing.T) {
	fn, err := compileProgram(t, "do\nx = 1\nx = 2\nend\n")
	require.NoError(t, err)
	require.Contains(t, fn.Chunk.Code, byte(compiler.OpSetLocal))
}

func TestCompileDuplicateParamErrors(t *testing.T) {
	_, err := compileProgram(t, "def f(a, a) do puts a end\n")
	require.Error(t, err)
	var target *compiler.LocalAlreadyDefinedError
	require.ErrorAs(t, err, &target)
	require.Equal(t, "a", target.Name)
}

func TestCompileReadInOwnInitializer(t *testing.T) {
	_, err := compileProgram(t, "do\nx = x\nend\n")
	require.Error(t, err)
	var target *compiler.ReadInOwnInitializerError
	require.ErrorAs(t, err, &target)
	require.Equal(t, "x", target.Name)
}

func compileProgram(t *testing.T, src string) (*compiler.Function, error) {
	t.Helper()
	toks, err := scanner.Scan(src)
	require.NoError(t, err)
	toks = scanner.Morph(toks)
	exprs, err := parser.Parse(toks)
	require.NoError(t, err)
	return compiler.Compile(exprs)
}
