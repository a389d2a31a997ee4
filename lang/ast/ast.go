// Package ast defines the abstract syntax tree produced by the parser.
package ast

import "github.com/mna/wisp/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span returns the start and end source positions covered by the node.
	Span() (start, end token.Position)
	// Walk visits the node's children, if any, with v.
	Walk(v Visitor)
}

// Expr is implemented by every expression node. In wisp, every top-level
// construct (including declarations and blocks) is an Expr: the language has
// no separate statement grammar.
type Expr interface {
	Node
	exprNode()
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Equal
	BangEqual
	Less
	LessEq
	Greater
	GreaterEq
)

// FromToken maps a binary-operator token kind to a BinaryOp. It panics if k
// does not name a binary operator; callers must check token.IsBinaryOp first.
func FromToken(k token.Kind) BinaryOp {
	switch k {
	case token.PLUS:
		return Add
	case token.MINUS:
		return Subtract
	case token.STAR:
		return Multiply
	case token.SLASH:
		return Divide
	case token.EQEQ:
		return Equal
	case token.BANGEQ:
		return BangEqual
	case token.LT:
		return Less
	case token.LE:
		return LessEq
	case token.GT:
		return Greater
	case token.GE:
		return GreaterEq
	default:
		panic("ast: not a binary operator token: " + k.String())
	}
}
