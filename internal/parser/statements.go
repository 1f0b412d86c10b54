package parser

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/token"
)

func (p *Parser) parseInstruction() ast.Node {
	switch p.curToken.Type {
	case token.FUNC, token.TEST, token.MOCK, token.EXT:
		if p.blockDepth > 0 {
			p.errorf(p.curToken, "function declarations are only allowed at top level")
			return nil
		}
		return p.parseFunctionDeclaration()
	case token.TYPE:
		if p.blockDepth > 0 {
			p.errorf(p.curToken, "type declarations are only allowed at top level")
			return nil
		}
		return p.parseTypeDeclaration()
	case token.INCL:
		if p.blockDepth > 0 {
			p.errorf(p.curToken, "incl is only allowed at top level")
			return nil
		}
		return p.parseInclude()
	case token.MUT:
		return p.parseAssignment()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignment()
		}
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return &ast.Break{Span: p.span()}
	case token.CONTINUE:
		return &ast.Continue{Span: p.span()}
	case token.LOOP, token.WHILE, token.FOR:
		return p.parseLoop()
	case token.AT:
		return p.parseDirective()
	}

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return expr
}

// [mut] name = value
func (p *Parser) parseAssignment() ast.Node {
	assign := &ast.Assignment{Span: p.span()}
	if p.curTokenIs(token.MUT) {
		assign.Mutable = true
		if !p.expectPeek(token.IDENT) {
			return nil
		}
	}
	assign.Name = p.curToken.Lexeme
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	assign.Value = p.parseExpression(LOWEST)
	if assign.Value == nil {
		return nil
	}
	ast.SetEnd(assign, p.curToken)
	return assign
}

func (p *Parser) parseReturn() ast.Node {
	ret := &ast.Return{Span: p.span()}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return ret
	}
	p.nextToken()
	ret.Value = p.parseExpression(LOWEST)
	if ret.Value == nil {
		return nil
	}
	ast.SetEnd(ret, p.curToken)
	return ret
}

// incl a/b/c [as name]
func (p *Parser) parseInclude() ast.Node {
	incl := &ast.Include{Span: p.span()}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	incl.Path = append(incl.Path, p.curToken.Lexeme)
	for p.peekTokenIs(token.SLASH) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		incl.Path = append(incl.Path, p.curToken.Lexeme)
	}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		incl.Alias = p.curToken.Lexeme
	}
	ast.SetEnd(incl, p.curToken)
	return incl
}

// loop { } | while cond { } | for x in iter { }
func (p *Parser) parseLoop() ast.Node {
	loop := &ast.Loop{Span: p.span()}
	switch p.curToken.Type {
	case token.LOOP:
		loop.Loop = ast.LoopForever
	case token.WHILE:
		loop.Loop = ast.LoopWhile
		p.nextToken()
		loop.Cond = p.parseExpression(LOWEST)
		if loop.Cond == nil {
			return nil
		}
	case token.FOR:
		loop.Loop = ast.LoopFor
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		loop.Var = p.curToken.Lexeme
		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		loop.Cond = p.parseExpression(LOWEST)
		if loop.Cond == nil {
			return nil
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	loop.Body = p.parseBlock()
	if loop.Body == nil {
		return nil
	}
	ast.SetEnd(loop, p.curToken)
	return loop
}

// @name(args)
func (p *Parser) parseDirective() ast.Node {
	dir := &ast.Directive{Span: p.span()}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	dir.Name = p.curToken.Lexeme
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	dir.Args = args
	ast.SetEnd(dir, p.curToken)
	return dir
}

// func [ (recv: T) ] name [ [T, U] ] (params) [-> type] { body }
// test name() { body }
// mock name(params) [-> type] { body }
// ext func name(params) [-> type]
func (p *Parser) parseFunctionDeclaration() *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Span: p.span()}

	switch p.curToken.Type {
	case token.TEST:
		fn.Flavor = ast.FlavorTest
	case token.MOCK:
		fn.Flavor = ast.FlavorMock
	case token.EXT:
		fn.Flavor = ast.FlavorExt
		if !p.expectPeek(token.FUNC) {
			return nil
		}
	}

	if fn.Flavor == ast.FlavorFunc && p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		params, ok := p.parseParameters()
		if !ok {
			return nil
		}
		if len(params) != 1 {
			p.errorf(p.curToken, "a receiver declares exactly one parameter")
			return nil
		}
		fn.Receiver = params[0]
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		for !p.peekTokenIs(token.RBRACKET) {
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			fn.Generics = append(fn.Generics, p.curToken.Lexeme)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			} else if !p.peekTokenIs(token.RBRACKET) {
				p.peekError(token.RBRACKET)
				return nil
			}
		}
		p.nextToken()
		if len(fn.Generics) == 0 {
			p.errorf(p.curToken, "empty generic parameter list")
			return nil
		}
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	fn.Params = params

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
		if fn.ReturnType == nil {
			return nil
		}
	}

	if fn.Flavor == ast.FlavorExt {
		ast.SetEnd(fn, p.curToken)
		return fn
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	ast.SetEnd(fn, p.curToken)
	return fn
}

// parseParameters parses `name: type, ...` with curToken on '('. It leaves
// curToken on ')'.
func (p *Parser) parseParameters() ([]*ast.Parameter, bool) {
	var params []*ast.Parameter
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		param := &ast.Parameter{Token: p.curToken, Name: p.curToken.Lexeme}
		if !p.expectPeek(token.COLON) {
			return nil, false
		}
		p.nextToken()
		param.Type = p.parseType()
		if param.Type == nil {
			return nil, false
		}
		params = append(params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.peekError(token.RPAREN)
			return nil, false
		}
	}
	p.nextToken()
	return params, true
}

// type Name(fields) [{ methods }]
// type Name as target [{ methods }]
func (p *Parser) parseTypeDeclaration() *ast.TypeDecl {
	td := &ast.TypeDecl{Span: p.span()}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	td.Name = p.curToken.Lexeme

	switch {
	case p.peekTokenIs(token.AS):
		p.nextToken()
		p.nextToken()
		td.Alias = p.parseType()
		if td.Alias == nil {
			return nil
		}
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		fields, ok := p.parseParameters()
		if !ok {
			return nil
		}
		td.Fields = fields
	default:
		p.errorf(p.peekToken, "expected '(' or 'as' after type name, found %s", describeToken(p.peekToken))
		return nil
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		td.Methods = []*ast.FunctionDecl{}
		p.nextToken()
		for !p.curTokenIs(token.RBRACE) {
			if p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
				continue
			}
			if !p.curTokenIs(token.FUNC) {
				p.errorf(p.curToken, "expected method declaration in type block, found %s", describeToken(p.curToken))
				return nil
			}
			method := p.parseFunctionDeclaration()
			if method == nil {
				return nil
			}
			td.Methods = append(td.Methods, method)
			p.nextToken()
		}
	}

	ast.SetEnd(td, p.curToken)
	return td
}
