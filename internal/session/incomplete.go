package session

import (
	"github.com/jinko-lang/jinko/internal/lexer"
	"github.com/jinko-lang/jinko/internal/token"
)

// Incomplete reports whether src leaves a bracket open, in which case an
// interactive reader should ask for another line before parsing.
func Incomplete(src string) bool {
	depth := 0
	for _, tok := range lexer.New(src).Tokenize() {
		switch tok.Type {
		case token.LBRACE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.RPAREN, token.RBRACKET:
			depth--
		case token.ILLEGAL:
			return false
		}
	}
	return depth > 0
}
