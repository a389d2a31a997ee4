package parser

import (
	"github.com/mna/wisp/lang/ast"
	"github.com/mna/wisp/lang/token"
)

// parseDef parses `def IDENT ( args ) do ... end`.
func (p *parser) parseDef() (ast.Expr, error) {
	kw, err := p.expect(token.DEF)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	body, end, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunExpr{
		Name:     name,
		Decl:     ast.FunDecl{Args: args, Body: body},
		Position: kw.Position,
		End:      end,
	}, nil
}

// parseBlock parses a bare `do ... end` block expression, introducing a new
// lexical scope without declaring a function.
func (p *parser) parseBlock() (ast.Expr, error) {
	start, err := p.peek()
	if err != nil {
		return nil, err
	}
	body, end, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ast.BlockExpr{Body: body, Start: start.Position, End: end}, nil
}

func (p *parser) parseIdentifier() (string, error) {
	t, err := p.expect(token.IDENT)
	if err != nil {
		return "", err
	}
	return t.Lexeme, nil
}

// parseArgs parses `( ident, ident, ... )` with no trailing comma allowed.
func (p *parser) parseArgs() ([]string, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var args []string
	for !p.check(token.RPAREN) && !p.isEOF() {
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		args = append(args, name)

		matched, err := p.match(token.COMMA)
		if err != nil {
			return nil, err
		}
		if !matched {
			break
		}
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parseBlockBody parses the body of a `do ... end` form, consuming both
// keywords, and returns the contained expressions and the position of `end`.
func (p *parser) parseBlockBody() ([]ast.Expr, token.Position, error) {
	if _, err := p.expect(token.DO); err != nil {
		return nil, token.Position{}, err
	}
	// a Line right after `do` opens a multi-line body; it is not a statement
	if _, err := p.match(token.LINE); err != nil {
		return nil, token.Position{}, err
	}

	var exprs []ast.Expr
	for {
		matched, err := p.match(token.END)
		if err != nil {
			return nil, token.Position{}, err
		}
		if matched {
			t := p.toks[p.pos-1]
			return exprs, t.Position, nil
		}
		e, err := p.parseTopLevelExpr()
		if err != nil {
			return nil, token.Position{}, err
		}
		exprs = append(exprs, e)
	}
}
