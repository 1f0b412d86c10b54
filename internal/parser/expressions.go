package parser

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorf(tok, "expected expression, found %s", describeToken(tok))
}

func (p *Parser) parseLiteral() ast.Expression {
	return &ast.Literal{Span: p.span(), Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Literal{Span: p.span(), Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNone() ast.Expression {
	return &ast.NoneLiteral{Span: p.span()}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.UnaryOp{Span: p.span(), Operator: p.curToken.Lexeme}
	p.nextToken()
	expression.Operand = p.parseExpression(PREFIX)
	if expression.Operand == nil {
		return nil
	}
	ast.SetEnd(expression, p.curToken)
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.BinaryOp{
		Span:     p.span(),
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	expression.Start = left.GetToken()

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	ast.SetEnd(expression, p.curToken)
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Span: p.span()}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	array.Elements = elements
	ast.SetEnd(array, p.curToken)
	return array
}

// parseExpressionList parses comma separated expressions with curToken on
// the opening delimiter and leaves curToken on end.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

// parseIdentifier handles x, M::x, f(args), M::f(args) and f[T](args).
func (p *Parser) parseIdentifier() ast.Expression {
	span := p.span()
	qualifier := ""
	name := p.curToken.Lexeme

	if p.peekTokenIs(token.DOUBLE_COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		qualifier = name
		name = p.curToken.Lexeme
	}

	if p.peekTokenIs(token.LBRACKET) || p.peekTokenIs(token.LPAREN) {
		call := &ast.Call{Span: span, Name: name, Qualifier: qualifier}
		if !p.parseCallTail(call) {
			return nil
		}
		return call
	}

	ident := &ast.Identifier{Span: span, Qualifier: qualifier, Name: name}
	ast.SetEnd(ident, p.curToken)
	return ident
}

// parseCallTail parses optional type arguments and the argument list, with
// curToken on the callee name.
func (p *Parser) parseCallTail(call *ast.Call) bool {
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		for !p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			t := p.parseType()
			if t == nil {
				return false
			}
			call.TypeArgs = append(call.TypeArgs, t)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			} else if !p.peekTokenIs(token.RBRACKET) {
				p.peekError(token.RBRACKET)
				return false
			}
		}
		p.nextToken()
	}
	if !p.expectPeek(token.LPAREN) {
		return false
	}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return false
	}
	call.Args = args
	ast.SetEnd(call, p.curToken)
	return true
}

// parseDotExpression handles recv.f(args) and p.field.
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme

	if p.peekTokenIs(token.LBRACKET) || p.peekTokenIs(token.LPAREN) {
		call := &ast.Call{Span: p.span(), Name: name, Receiver: left}
		call.Start = left.GetToken()
		if !p.parseCallTail(call) {
			return nil
		}
		return call
	}

	access := &ast.FieldAccess{Span: p.span(), Object: left, Field: name}
	access.Start = left.GetToken()
	return access
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.If{Span: p.span()}
	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Then = p.parseBlock()
	if expression.Then == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			alt := p.parseIfExpression()
			if alt == nil {
				return nil
			}
			expression.Else = alt
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			alt := p.parseBlock()
			if alt == nil {
				return nil
			}
			expression.Else = alt
		}
	}
	ast.SetEnd(expression, p.curToken)
	return expression
}

func (p *Parser) parseBlockExpression() ast.Expression {
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return block
}

func (p *Parser) parseAuditBlock() ast.Expression {
	start := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	block.Start = start
	block.Audit = true
	return block
}

// parseBlock parses `{ instructions }` with curToken on '{' and leaves
// curToken on '}'.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Span: p.span()}
	p.blockDepth++
	p.nextToken()
	block.Instructions, block.Value = p.parseInstructions(token.RBRACE)
	p.blockDepth--
	if p.failed {
		return nil
	}
	ast.SetEnd(block, p.curToken)
	return block
}
