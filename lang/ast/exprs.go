package ast

import "github.com/mna/wisp/lang/token"

type (
	// BinaryExpr is a binary operator expression, e.g. `x + y`.
	BinaryExpr struct {
		Left  Expr
		Op    BinaryOp
		OpPos token.Position
		Right Expr
	}

	// NumberExpr is a numeric literal.
	NumberExpr struct {
		Value    float64
		Position token.Position
	}

	// BoolExpr is a `true` or `false` literal.
	BoolExpr struct {
		Value    bool
		Position token.Position
	}

	// VarGetExpr reads the value bound to Name.
	VarGetExpr struct {
		Name     string
		Position token.Position
	}

	// VarSetExpr assigns Value to Name, producing Value as its own result.
	VarSetExpr struct {
		Name     string
		Value    Expr
		Position token.Position
	}

	// FunDecl is the parameter list and body of a function declaration.
	FunDecl struct {
		Args []string
		Body []Expr
	}

	// FunExpr declares a function named Name and binds it like an assignment.
	FunExpr struct {
		Name     string
		Decl     FunDecl
		Position token.Position
		End      token.Position
	}

	// CallExpr invokes Callee with Args.
	CallExpr struct {
		Callee Expr
		Args   []Expr
		RParen token.Position
	}

	// BlockExpr is a `do ... end` sequence of expressions evaluated in a new
	// lexical scope.
	BlockExpr struct {
		Body  []Expr
		Start token.Position
		End   token.Position
	}

	// PutsExpr is the built-in print form: `puts <expr>`.
	PutsExpr struct {
		Value    Expr
		Position token.Position
	}
)

func (*BinaryExpr) exprNode()  {}
func (*NumberExpr) exprNode()  {}
func (*BoolExpr) exprNode()    {}
func (*VarGetExpr) exprNode()  {}
func (*VarSetExpr) exprNode()  {}
func (*FunExpr) exprNode()     {}
func (*CallExpr) exprNode()    {}
func (*BlockExpr) exprNode()   {}
func (*PutsExpr) exprNode()    {}

func (n *BinaryExpr) Span() (token.Position, token.Position) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *NumberExpr) Span() (token.Position, token.Position) { return n.Position, n.Position }
func (n *NumberExpr) Walk(Visitor)                           {}

func (n *BoolExpr) Span() (token.Position, token.Position) { return n.Position, n.Position }
func (n *BoolExpr) Walk(Visitor)                           {}

func (n *VarGetExpr) Span() (token.Position, token.Position) { return n.Position, n.Position }
func (n *VarGetExpr) Walk(Visitor)                           {}

func (n *VarSetExpr) Span() (token.Position, token.Position) {
	_, end := n.Value.Span()
	return n.Position, end
}
func (n *VarSetExpr) Walk(v Visitor) { Walk(v, n.Value) }

func (n *FunExpr) Span() (token.Position, token.Position) { return n.Position, n.End }
func (n *FunExpr) Walk(v Visitor) {
	for _, e := range n.Decl.Body {
		Walk(v, e)
	}
}

func (n *CallExpr) Span() (token.Position, token.Position) {
	start, _ := n.Callee.Span()
	return start, n.RParen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *BlockExpr) Span() (token.Position, token.Position) { return n.Start, n.End }
func (n *BlockExpr) Walk(v Visitor) {
	for _, e := range n.Body {
		Walk(v, e)
	}
}

func (n *PutsExpr) Span() (token.Position, token.Position) {
	_, end := n.Value.Span()
	return n.Position, end
}
func (n *PutsExpr) Walk(v Visitor) { Walk(v, n.Value) }
