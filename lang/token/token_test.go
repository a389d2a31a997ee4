package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		require.NotEmpty(t, k.String())
	}
}

func TestLookup(t *testing.T) {
	cases := map[string]Kind{
		"true":  TRUE,
		"false": FALSE,
		"puts":  PUTS,
		"def":   DEF,
		"do":    DO,
		"end":   END,
		"x":     IDENT,
		"sq":    IDENT,
	}
	for lit, want := range cases {
		require.Equal(t, want, Lookup(lit), lit)
	}
}

func TestIsBinaryOp(t *testing.T) {
	yes := []Kind{PLUS, MINUS, STAR, SLASH, EQEQ, BANGEQ, LT, LE, GT, GE}
	for _, k := range yes {
		require.True(t, IsBinaryOp(k), k.String())
	}
	no := []Kind{EQ, LPAREN, RPAREN, IDENT, NUMBER, DEF, EOF, LINE}
	for _, k := range no {
		require.False(t, IsBinaryOp(k), k.String())
	}
}
