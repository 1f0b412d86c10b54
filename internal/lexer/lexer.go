package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinko-lang/jinko/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// Tokenize scans the whole input. The last token is always EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()
	start := l.position

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = l.newToken(token.ASSIGN)
		}
	case '+':
		tok = l.newToken(token.PLUS)
	case '-':
		if l.peekChar() == '>' {
			tok = l.twoCharToken(token.ARROW)
		} else {
			tok = l.newToken(token.MINUS)
		}
	case '*':
		tok = l.newToken(token.ASTERISK)
	case '/':
		tok = l.newToken(token.SLASH)
	case '%':
		tok = l.newToken(token.PERCENT)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.NOT_EQ)
		} else {
			tok = l.newToken(token.BANG)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LTE)
		} else {
			tok = l.newToken(token.LT)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GTE)
		} else {
			tok = l.newToken(token.GT)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(token.AND)
		} else {
			tok = l.newToken(token.ILLEGAL)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(token.OR)
		} else {
			tok = l.newToken(token.ILLEGAL)
		}
	case ':':
		if l.peekChar() == ':' {
			tok = l.twoCharToken(token.DOUBLE_COLON)
		} else {
			tok = l.newToken(token.COLON)
		}
	case '.':
		tok = l.newToken(token.DOT)
	case ',':
		tok = l.newToken(token.COMMA)
	case ';':
		tok = l.newToken(token.SEMICOLON)
	case '@':
		tok = l.newToken(token.AT)
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case '[':
		tok = l.newToken(token.LBRACKET)
	case ']':
		tok = l.newToken(token.RBRACKET)
	case '"':
		startLine, startCol := l.line, l.column
		content, err := l.readString()
		tok = token.Token{Type: token.STRING, Literal: content, Line: startLine, Column: startCol}
		if err != nil {
			tok.Type = token.ILLEGAL
			tok.Literal = err.Error()
		}
	case '\'':
		startLine, startCol := l.line, l.column
		val, err := l.readCharLiteral()
		tok = token.Token{Type: token.CHAR, Literal: val, Line: startLine, Column: startCol}
		if err != nil {
			tok.Type = token.ILLEGAL
			tok.Literal = err.Error()
		}
	case 0:
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column, Offset: len(l.input), End: len(l.input)}
	default:
		if isLetter(l.ch) {
			startLine, startCol := l.line, l.column
			lexeme := l.readIdentifier()
			return token.Token{
				Type:    token.LookupIdent(lexeme),
				Lexeme:  lexeme,
				Literal: lexeme,
				Line:    startLine,
				Column:  startCol,
				Offset:  start,
				End:     l.position,
			}
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.newToken(token.ILLEGAL)
	}

	l.readChar()
	tok.Offset = start
	tok.End = l.position
	if l.ch == 0 {
		tok.End = len(l.input)
	}
	if tok.Lexeme == "" {
		tok.Lexeme = l.input[start:tok.End]
	}
	return tok
}

func (l *Lexer) newToken(tokenType token.TokenType) token.Token {
	literal := string(l.ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: l.line, Column: l.column}
}

func (l *Lexer) twoCharToken(tokenType token.TokenType) token.Token {
	line, col := l.line, l.column
	first := l.ch
	l.readChar()
	literal := string(first) + string(l.ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

// readString reads a double-quoted string. The closing quote is left as the
// current char so NextToken consumes it.
func (l *Lexer) readString() (string, error) {
	var out strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case '"':
			return out.String(), nil
		case 0:
			return "", fmt.Errorf("unterminated string literal")
		case '\\':
			l.readChar()
			r, err := unescape(l.ch)
			if err != nil {
				return "", err
			}
			out.WriteRune(r)
		default:
			out.WriteRune(l.ch)
		}
	}
}

func (l *Lexer) readCharLiteral() (rune, error) {
	l.readChar() // consume opening '
	var char rune
	switch l.ch {
	case 0, '\n':
		return 0, fmt.Errorf("unterminated character literal")
	case '\\':
		l.readChar()
		r, err := unescape(l.ch)
		if err != nil {
			return 0, err
		}
		char = r
	default:
		char = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return 0, fmt.Errorf("unterminated character literal, expected '")
	}
	return char, nil
}

func unescape(ch rune) (rune, error) {
	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '"', '\'':
		return ch, nil
	}
	return 0, fmt.Errorf("unknown escape sequence \\%c", ch)
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == 0 {
		return l.input[position:]
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	isFloat := false

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	end := l.position
	if l.ch == 0 {
		end = len(l.input)
	}
	lexeme := l.input[position:end]
	tok := token.Token{Lexeme: lexeme, Line: startLine, Column: startCol, Offset: position, End: end}

	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			tok.Type = token.ILLEGAL
			tok.Literal = err.Error()
			return tok
		}
		tok.Type = token.FLOAT
		tok.Literal = val
		return tok
	}
	val, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		tok.Type = token.ILLEGAL
		tok.Literal = "integer literal overflows int"
		return tok
	}
	tok.Type = token.INT
	tok.Literal = val
	return tok
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Comments: //, /* */ and #
		if l.ch == '#' || (l.ch == '/' && l.peekChar() == '/') {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // consume /
			l.readChar() // consume *
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			continue
		}
		break
	}
}
