// Package parser implements a recursive-descent parser, with a Pratt-style
// precedence climber for expressions, that turns a wisp token stream into an
// abstract syntax tree.
package parser

import (
	"errors"
	"fmt"

	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/token"
)

// ErrUnexpectedEOF is returned when the parser needs another token but the
// stream is exhausted.
var ErrUnexpectedEOF = errors.New("unexpected end of file")

// UnexpectedError reports a token that no parsing rule in the current
// position accepts.
type UnexpectedError struct {
	Got token.Kind
	Pos token.Position
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: unexpected %s", e.Pos, e.Got)
}

// ExpectedError reports a mismatch between an expected and an actual token
// kind.
type ExpectedError struct {
	Want, Got token.Kind
	Line      int
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("line %d: expected %s, got %s", e.Line, e.Want, e.Got)
}

// ExpectedPrimaryError reports a token that cannot start a primary
// expression.
type ExpectedPrimaryError struct {
	Got token.Kind
	Pos token.Position
}

func (e *ExpectedPrimaryError) Error() string {
	return fmt.Sprintf("%s: expected a primary expression, got %s", e.Pos, e.Got)
}

// ExpectedBinaryOperatorError reports a token that was expected to be a
// binary operator.
type ExpectedBinaryOperatorError struct {
	Got token.Kind
	Pos token.Position
}

func (e *ExpectedBinaryOperatorError) Error() string {
	return fmt.Sprintf("%s: expected a binary operator, got %s", e.Pos, e.Got)
}

// Parse parses a full program's tokens into a sequence of top-level expressions.
// toks must already have had scanner.Morph applied and end with a single
// token.EOF.
func Parse(toks []token.Token) ([]ast.Expr, error) {
	p := &parser{toks: toks}
	var exprs []ast.Expr
	for !p.isEOF() {
		e, err := p.parseTopLevelExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// parser consumes a token stream front-to-back (unlike the teacher's
// reversed-Vec approach in the original source, a plain index is simpler and
// just as cheap in Go).
type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) peek() (token.Token, error) {
	if p.pos >= len(p.toks) {
		return token.Token{}, ErrUnexpectedEOF
	}
	return p.toks[p.pos], nil
}

func (p *parser) peekKind() (token.Kind, error) {
	t, err := p.peek()
	if err != nil {
		return token.ILLEGAL, err
	}
	return t.Kind, nil
}

func (p *parser) isEOF() bool {
	k, err := p.peekKind()
	return err != nil || k == token.EOF
}

func (p *parser) consume() (token.Token, error) {
	t, err := p.peek()
	if err != nil {
		return token.Token{}, err
	}
	p.pos++
	return t, nil
}

func (p *parser) check(k token.Kind) bool {
	got, err := p.peekKind()
	return err == nil && got == k
}

// match consumes the next token and returns true if its kind is k, otherwise
// it leaves the stream untouched and returns false.
func (p *parser) match(k token.Kind) (bool, error) {
	if !p.check(k) {
		return false, nil
	}
	if _, err := p.consume(); err != nil {
		return false, err
	}
	return true, nil
}

// expect consumes the next token if it has kind k, otherwise it returns an
// ExpectedError.
func (p *parser) expect(k token.Kind) (token.Token, error) {
	if p.check(k) {
		return p.consume()
	}
	t, err := p.peek()
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{}, &ExpectedError{Want: k, Got: t.Kind, Line: t.Position.Line}
}

// parseTopLevelExpr dispatches to the right production for the start of a
// top-level construct (`puts`, `def`, a bare `do ... end` block, or an
// expression statement) and then consumes the optional Line terminator that
// follows it. Missing the Line at EOF is not an error.
func (p *parser) parseTopLevelExpr() (ast.Expr, error) {
	k, err := p.peekKind()
	if err != nil {
		return nil, err
	}

	var e ast.Expr
	switch k {
	case token.PUTS:
		e, err = p.parsePuts()
	case token.DEF:
		e, err = p.parseDef()
	case token.DO:
		e, err = p.parseBlock()
	default:
		e, err = p.expression()
	}
	if err != nil {
		return nil, err
	}

	if !p.isEOF() {
		if _, err := p.match(token.LINE); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (p *parser) parsePuts() (ast.Expr, error) {
	kw, err := p.expect(token.PUTS)
	if err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.PutsExpr{Value: value, Position: kw.Position}, nil
}

func (p *parser) expression() (ast.Expr, error) {
	return p.parseExpr(precNone)
}
