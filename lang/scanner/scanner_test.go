package scanner_test

import (
	"testing"

	"github.com/mna/wisp/lang/scanner"
	"github.com/mna/wisp/lang/token"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScan(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"number", "42", []token.Kind{token.NUMBER, token.EOF}},
		{"float", "3.14", []token.Kind{token.NUMBER, token.EOF}},
		{"dot no frac", "3.", []token.Kind{token.NUMBER, token.DOT, token.EOF}},
		{"booleans", "true false", []token.Kind{token.TRUE, token.FALSE, token.EOF}},
		{"ident", "foo_bar1", []token.Kind{token.IDENT, token.EOF}},
		{"keywords", "def do end puts", []token.Kind{token.DEF, token.DO, token.END, token.PUTS, token.EOF}},
		{"two char ops", "== != <= >=", []token.Kind{token.EQEQ, token.BANGEQ, token.LE, token.GE, token.EOF}},
		{"one char ops", "= < > + - * /", []token.Kind{token.EQ, token.LT, token.GT, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.EOF}},
		{"comment", "1 // comment\n2", []token.Kind{token.NUMBER, token.LINE, token.NUMBER, token.EOF}},
		{"newline run", "1\n\n\n2", []token.Kind{token.NUMBER, token.LINE, token.LINE, token.LINE, token.NUMBER, token.EOF}},
		{"call", "sq(6)", []token.Kind{token.IDENT, token.LPAREN, token.NUMBER, token.RPAREN, token.EOF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := scanner.Scan(tc.src)
			require.NoError(t, err)
			require.Equal(t, tc.want, kinds(toks))
		})
	}
}

func TestScanTotality(t *testing.T) {
	// The concatenation of token lexemes, ignoring skipped whitespace, must
	// reconstruct every non-whitespace, non-comment byte of the source.
	src := "x = 1 + 2\nputs x // trailing\n"
	toks, err := scanner.Scan(src)
	require.NoError(t, err)
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)

	var got string
	for _, tok := range toks {
		got += tok.Lexeme
	}
	require.Equal(t, "x=1+2\nputsx\n", got)
}

func TestScanErrors(t *testing.T) {
	_, err := scanner.Scan("@")
	require.ErrorIs(t, err, scanner.ErrUnexpectedChar)

	_, err = scanner.Scan("!")
	require.ErrorIs(t, err, scanner.ErrUnexpectedChar)
}

func TestMorphIdempotent(t *testing.T) {
	toks, err := scanner.Scan("1\n\n\n2\n")
	require.NoError(t, err)
	morphed := scanner.Morph(toks)
	for i := 1; i < len(morphed); i++ {
		require.False(t, morphed[i-1].Kind == token.LINE && morphed[i].Kind == token.LINE, "adjacent Line tokens at %d", i)
	}
}
