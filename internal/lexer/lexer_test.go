package lexer

import (
	"testing"

	"github.com/jinko-lang/jinko/internal/pipeline"
	"github.com/jinko-lang/jinko/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `incl utils/math as m
mut x = 12;
func add[T](a: T, b: int) -> Option[T] { a }
m::add(1, 2).f() == !true && x <= 3 || x >= 4 != 5
'c' "s\n" 3.25 None // trailing comment
/* block */ @dump() # hash comment
`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.INCL, "incl"},
		{token.IDENT, "utils"},
		{token.SLASH, "/"},
		{token.IDENT, "math"},
		{token.AS, "as"},
		{token.IDENT, "m"},
		{token.MUT, "mut"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "12"},
		{token.SEMICOLON, ";"},
		{token.FUNC, "func"},
		{token.IDENT, "add"},
		{token.LBRACKET, "["},
		{token.IDENT, "T"},
		{token.RBRACKET, "]"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.IDENT, "T"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.IDENT, "int"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "Option"},
		{token.LBRACKET, "["},
		{token.IDENT, "T"},
		{token.RBRACKET, "]"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.RBRACE, "}"},
		{token.IDENT, "m"},
		{token.DOUBLE_COLON, "::"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.RPAREN, ")"},
		{token.DOT, "."},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.EQ, "=="},
		{token.BANG, "!"},
		{token.TRUE, "true"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "3"},
		{token.OR, "||"},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.INT, "4"},
		{token.NOT_EQ, "!="},
		{token.INT, "5"},
		{token.CHAR, "'c'"},
		{token.STRING, `"s\n"`},
		{token.FLOAT, "3.25"},
		{token.NONE, "None"},
		{token.AT, "@"},
		{token.IDENT, "dump"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLiteralValues(t *testing.T) {
	toks := New(`42 2.5 'x' '\n' "a\tb"`).Tokenize()
	if v, ok := toks[0].Literal.(int64); !ok || v != 42 {
		t.Fatalf("int literal = %#v", toks[0].Literal)
	}
	if v, ok := toks[1].Literal.(float64); !ok || v != 2.5 {
		t.Fatalf("float literal = %#v", toks[1].Literal)
	}
	if v, ok := toks[2].Literal.(rune); !ok || v != 'x' {
		t.Fatalf("char literal = %#v", toks[2].Literal)
	}
	if v, ok := toks[3].Literal.(rune); !ok || v != '\n' {
		t.Fatalf("escaped char literal = %#v", toks[3].Literal)
	}
	if v, ok := toks[4].Literal.(string); !ok || v != "a\tb" {
		t.Fatalf("string literal = %#v", toks[4].Literal)
	}
}

func TestPositions(t *testing.T) {
	input := "x = 1;\n  foo(bar)"
	toks := New(input).Tokenize()
	foo := toks[4]
	if foo.Lexeme != "foo" || foo.Line != 2 || foo.Column != 3 {
		t.Fatalf("unexpected position for %q: %d:%d", foo.Lexeme, foo.Line, foo.Column)
	}
	if input[foo.Offset:foo.End] != "foo" {
		t.Fatalf("offsets do not cover the lexeme: %q", input[foo.Offset:foo.End])
	}
	last := toks[len(toks)-2]
	if last.Type != token.RPAREN || last.End != len(input) {
		t.Fatalf("last token %q ends at %d, want %d", last.Lexeme, last.End, len(input))
	}
}

func TestProcessorReportsIllegalTokens(t *testing.T) {
	ctx := &pipeline.PipelineContext{FilePath: "bad.jk", SourceCode: "x = \"unterminated"}
	ctx = (&LexerProcessor{}).Process(ctx)
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(ctx.Errors))
	}
	err := ctx.Errors[0]
	if err.File != "bad.jk" || err.Line != 1 || err.Column != 5 {
		t.Fatalf("unexpected location %s:%d:%d", err.File, err.Line, err.Column)
	}
	if err.Message != "unterminated string literal" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}
