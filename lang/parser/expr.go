package parser

import (
	"errors"
	"strconv"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/token"
)

// precedence orders the infix operators from loosest- to tightest-binding.
// The full ladder from the language design is kept even though this surface
// grammar currently has no tokens that produce Or, And or Unary — it
// documents where they would slot in if the grammar grew '!'/'-' unary or
// short-circuiting boolean operators.
type precedence int

const (
	precNone precedence = iota
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

func precedenceOf(k token.Kind) precedence {
	switch k {
	case token.EQ:
		return precAssign
	case token.EQEQ, token.BANGEQ:
		return precEquality
	case token.LT, token.LE, token.GT, token.GE:
		return precComparison
	case token.PLUS, token.MINUS:
		return precTerm
	case token.STAR, token.SLASH:
		return precFactor
	case token.LPAREN:
		return precCall
	default:
		return precNone
	}
}

// ErrInvalidAssignTarget is returned when the left side of `=` is not an
// identifier.
var ErrInvalidAssignTarget = errors.New("invalid assignment target")

// parseExpr implements precedence-climbing: it parses a prefix expression
// then repeatedly folds in infix operators whose precedence is strictly
// greater than minPrec, so that equal-precedence binary operators associate
// to the left.
func (p *parser) parseExpr(minPrec precedence) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for !p.isEOF() {
		k, err := p.peekKind()
		if err != nil {
			return nil, err
		}
		if precedenceOf(k) <= minPrec {
			break
		}
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parsePrefix() (ast.Expr, error) {
	k, err := p.peekKind()
	if err != nil {
		return nil, err
	}

	switch k {
	case token.NUMBER, token.TRUE, token.FALSE:
		return p.parsePrimary()
	case token.IDENT:
		t, err := p.consume()
		if err != nil {
			return nil, err
		}
		return &ast.VarGetExpr{Name: t.Lexeme, Position: t.Position}, nil
	case token.LPAREN:
		if _, err := p.consume(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(precNone)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		return nil, &ExpectedPrimaryError{Got: t.Kind, Pos: t.Position}
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	t, err := p.consume()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.NUMBER:
		n, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, err
		}
		return &ast.NumberExpr{Value: n, Position: t.Position}, nil
	case token.TRUE:
		return &ast.BoolExpr{Value: true, Position: t.Position}, nil
	case token.FALSE:
		return &ast.BoolExpr{Value: false, Position: t.Position}, nil
	default:
		return nil, &ExpectedPrimaryError{Got: t.Kind, Pos: t.Position}
	}
}

func (p *parser) parseInfix(left ast.Expr) (ast.Expr, error) {
	k, err := p.peekKind()
	if err != nil {
		return nil, err
	}

	switch {
	case k == token.EQ:
		return p.parseAssign(left)
	case k == token.LPAREN:
		return p.parseCall(left)
	case token.IsBinaryOp(k):
		return p.parseBinary(left)
	default:
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		return nil, &UnexpectedError{Got: t.Kind, Pos: t.Position}
	}
}

func (p *parser) parseBinary(left ast.Expr) (ast.Expr, error) {
	opTok, err := p.consume()
	if err != nil {
		return nil, err
	}
	if !token.IsBinaryOp(opTok.Kind) {
		return nil, &ExpectedBinaryOperatorError{Got: opTok.Kind, Pos: opTok.Position}
	}

	right, err := p.parseExpr(precedenceOf(opTok.Kind))
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Left: left, Op: ast.FromToken(opTok.Kind), OpPos: opTok.Position, Right: right}, nil
}

func (p *parser) parseAssign(left ast.Expr) (ast.Expr, error) {
	eqTok, err := p.expect(token.EQ)
	if err != nil {
		return nil, err
	}
	target, ok := left.(*ast.VarGetExpr)
	if !ok {
		return nil, ErrInvalidAssignTarget
	}
	value, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	return &ast.VarSetExpr{Name: target.Name, Value: value, Position: eqTok.Position}, nil
}

func (p *parser) parseCall(callee ast.Expr) (ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.Expr
	for !p.check(token.RPAREN) && !p.isEOF() {
		arg, err := p.parseExpr(precAssign)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		matched, err := p.match(token.COMMA)
		if err != nil {
			return nil, err
		}
		if !matched {
			break
		}
	}

	rparen, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: callee, Args: args, RParen: rparen.Position}, nil
}
