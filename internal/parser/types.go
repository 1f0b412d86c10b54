package parser

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/token"
)

// parseType parses a type annotation starting at curToken and leaves
// curToken on its last token.
//
//	int | Option[T] | geo::Point | func(int, int) -> bool
func (p *Parser) parseType() *ast.TypeExpr {
	if p.curTokenIs(token.FUNC) {
		return p.parseFuncType()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorf(p.curToken, "expected type, found %s", describeToken(p.curToken))
		return nil
	}

	t := &ast.TypeExpr{Token: p.curToken, Name: p.curToken.Lexeme}
	if p.peekTokenIs(token.DOUBLE_COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		t.Qualifier = t.Name
		t.Name = p.curToken.Lexeme
	}

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		for !p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			arg := p.parseType()
			if arg == nil {
				return nil
			}
			t.Args = append(t.Args, arg)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			} else if !p.peekTokenIs(token.RBRACKET) {
				p.peekError(token.RBRACKET)
				return nil
			}
		}
		p.nextToken()
	}
	return t
}

func (p *Parser) parseFuncType() *ast.TypeExpr {
	t := &ast.TypeExpr{Token: p.curToken, Name: "func", Func: true}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		param := p.parseType()
		if param == nil {
			return nil
		}
		t.Params = append(t.Params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.peekError(token.RPAREN)
			return nil
		}
	}
	p.nextToken()

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		t.Return = p.parseType()
		if t.Return == nil {
			return nil
		}
	}
	return t
}
