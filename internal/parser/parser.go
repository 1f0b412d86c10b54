package parser

import (
	"fmt"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/pipeline"
	"github.com/jinko-lang/jinko/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 1000

const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	CALL        // recv.f() p.x
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GT:       LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.DOT:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth      int // expression recursion depth
	blockDepth int // 0 at top level
	failed     bool
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseLiteral,
		token.FLOAT:    p.parseLiteral,
		token.STRING:   p.parseLiteral,
		token.CHAR:     p.parseLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NONE:     p.parseNone,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseArrayLiteral,
		token.IF:       p.parseIfExpression,
		token.LBRACE:   p.parseBlockExpression,
		token.AUDIT:    p.parseAuditBlock,
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, tt := range []token.TokenType{
		token.OR, token.AND, token.EQ, token.NOT_EQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
	} {
		p.infixParseFns[tt] = p.parseInfixExpression
	}
	p.infixParseFns[token.DOT] = p.parseDotExpression

	// Read two tokens, so curToken and peekToken are both set
	p.pos = -2
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.pos++
	if p.pos+1 < len(p.tokens) {
		p.peekToken = p.tokens[p.pos+1]
	} else {
		p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorf(p.peekToken, "expected %s, found %s", describe(t), describeToken(p.peekToken))
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	if p.failed {
		return
	}
	p.failed = true
	err := diagnostics.NewError(diagnostics.ErrP001, tok, fmt.Sprintf(format, args...))
	err.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, err)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// span starts a node at the current token.
func (p *Parser) span() ast.Span {
	return ast.Span{File: p.ctx.FilePath, Start: p.curToken, End: p.curToken}
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of file"
	}
	return fmt.Sprintf("'%s'", string(t))
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier '%s'", tok.Lexeme)
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ParseProgram parses a whole source file.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath, Source: p.ctx.SourceCode}
	program.Instructions, program.Value = p.parseInstructions(token.EOF)
	return program
}

// parseInstructions parses `;` separated instructions up to (not including)
// the terminator. The last expression not followed by `;` becomes the value.
func (p *Parser) parseInstructions(terminator token.TokenType) ([]ast.Node, ast.Expression) {
	var instructions []ast.Node
	var value ast.Expression

	for !p.curTokenIs(terminator) && !p.curTokenIs(token.EOF) && !p.failed {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}

		node := p.parseInstruction()
		if node == nil || p.failed {
			break
		}

		switch {
		case p.peekTokenIs(token.SEMICOLON):
			p.nextToken()
			instructions = append(instructions, node)
		case p.peekTokenIs(terminator):
			if expr, ok := node.(ast.Expression); ok {
				value = expr
			} else {
				instructions = append(instructions, node)
			}
		case selfTerminated(node):
			instructions = append(instructions, node)
		case p.peekTokenIs(token.EOF):
			p.errorf(p.peekToken, "expected %s, found end of file", describe(terminator))
			return instructions, nil
		default:
			p.errorf(p.peekToken, "expected ';' after %s, found %s", node.Kind(), describeToken(p.peekToken))
			return instructions, nil
		}
		p.nextToken()
	}

	if terminator != token.EOF && !p.failed && !p.curTokenIs(terminator) {
		p.errorf(p.curToken, "expected %s, found %s", describe(terminator), describeToken(p.curToken))
	}
	return instructions, value
}

// selfTerminated reports whether an instruction ends with its own closing
// brace (or is an include line) and so needs no `;` separator.
func selfTerminated(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Block, *ast.If, *ast.Loop, *ast.Include:
		return true
	case *ast.FunctionDecl:
		return n.Body != nil
	case *ast.TypeDecl:
		return n.Methods != nil
	}
	return false
}
