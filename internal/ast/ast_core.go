package ast

import (
	"github.com/jinko-lang/jinko/internal/token"
)

// Kind separates void-like statements from value-producing expressions.
type Kind int

const (
	KindStatement Kind = iota
	KindExpression
)

func (k Kind) String() string {
	if k == KindStatement {
		return "statement"
	}
	return "expression"
}

// Node is an instruction of a jinko program.
type Node interface {
	GetToken() token.Token
	Kind() Kind
	span() *Span
}

// Statement is an instruction that never produces a value.
type Statement interface {
	Node
	statementNode()
}

// Expression is an instruction that may produce a value.
type Expression interface {
	Node
	expressionNode()
}

// Span is the source range of an instruction.
type Span struct {
	File  string
	Start token.Token // first token of the instruction
	End   token.Token // last token of the instruction
}

func (s *Span) GetToken() token.Token { return s.Start }
func (s *Span) span() *Span          { return s }

// Location is a resolved source position.
type Location struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// LocationOf returns the file, line span and column span of n.
func LocationOf(n Node) Location {
	s := n.span()
	end := s.End
	if end.Line == 0 {
		end = s.Start
	}
	return Location{
		File:      s.File,
		Line:      s.Start.Line,
		Column:    s.Start.Column,
		EndLine:   end.Line,
		EndColumn: end.Column + len(end.Lexeme),
	}
}

// SourceText returns the text of n inside src, the file it was parsed from.
func SourceText(src string, n Node) string {
	s := n.span()
	start, end := s.Start.Offset, s.End.End
	if end < start {
		end = s.Start.End
	}
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}

// SetEnd records the last token of n.
func SetEnd(n Node, tok token.Token) {
	n.span().End = tok
}

// Program is the root node of a parsed source file.
type Program struct {
	File         string
	Source       string
	Instructions []Node
	// Value is the trailing expression not terminated by `;`, if any.
	Value Expression
}

// Text returns the source text of an instruction of this program.
func (p *Program) Text(n Node) string {
	return SourceText(p.Source, n)
}

// All returns the instructions followed by the trailing value.
func (p *Program) All() []Node {
	if p.Value == nil {
		return p.Instructions
	}
	return append(p.Instructions[:len(p.Instructions):len(p.Instructions)], p.Value)
}
