package directive

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes directive text.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// LexError reports an unterminated string or an unexpected character.
type LexError struct {
	Message string
	Tok     Token
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Tok.Line, e.Tok.Col, e.Message)
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the entire input. It stops at the first lexical error; the
// returned tokens always end with TokenEOF when err is nil.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[p:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) token(typ TokenType, lit string, pos, line, col int) Token {
	return Token{Type: typ, Literal: lit, Pos: pos, Line: line, Col: col}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()

	startPos, startLine, startCol := l.pos, l.line, l.col
	if l.pos >= len(l.input) {
		return l.token(TokenEOF, "", startPos, startLine, startCol), nil
	}

	r := l.peek()
	switch {
	case r == '"' || r == '\'':
		return l.scanString(startPos, startLine, startCol)
	case isDigit(r) || (r == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber(startPos, startLine, startCol), nil
	case isIdentStart(r):
		return l.scanIdent(startPos, startLine, startCol), nil
	}

	l.advance()
	switch r {
	case '=':
		return l.token(TokenEQ, "=", startPos, startLine, startCol), nil
	case ',':
		return l.token(TokenComma, ",", startPos, startLine, startCol), nil
	case '-':
		return l.token(TokenMinus, "-", startPos, startLine, startCol), nil
	case '(':
		return l.token(TokenLParen, "(", startPos, startLine, startCol), nil
	case ')':
		return l.token(TokenRParen, ")", startPos, startLine, startCol), nil
	}

	tok := l.token(TokenIllegal, string(r), startPos, startLine, startCol)
	return tok, &LexError{Message: fmt.Sprintf("unexpected character %q", r), Tok: tok}
}

// scanString reads a quoted string literal; Literal holds the unescaped value.
func (l *Lexer) scanString(startPos, startLine, startCol int) (Token, error) {
	quote := l.advance()
	var b strings.Builder
	for l.pos < len(l.input) {
		r := l.advance()
		if r == quote {
			return l.token(TokenString, b.String(), startPos, startLine, startCol), nil
		}
		if r == '\\' {
			next := l.advance()
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '"', '\'':
				b.WriteRune(next)
			default:
				b.WriteByte('\\')
				b.WriteRune(next)
			}
			continue
		}
		b.WriteRune(r)
	}
	tok := l.token(TokenString, b.String(), startPos, startLine, startCol)
	return tok, &LexError{Message: "unterminated string", Tok: tok}
}

// scanNumber reads an integer or float literal (decimal, hex integers,
// fractions and exponents).
func (l *Lexer) scanNumber(startPos, startLine, startCol int) Token {
	start := l.pos
	isFloat := false

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.token(TokenInt, l.input[start:l.pos], startPos, startLine, startCol)
	}

	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			isFloat = true
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	lit := l.input[start:l.pos]
	if isFloat {
		return l.token(TokenFloat, lit, startPos, startLine, startCol)
	}
	return l.token(TokenInt, lit, startPos, startLine, startCol)
}

// scanIdent reads a bare word. Dots join identifier segments so qualified
// names such as widget.NoSelection stay a single word.
func (l *Lexer) scanIdent(startPos, startLine, startCol int) Token {
	start := l.pos
	for l.pos < len(l.input) {
		r := l.peek()
		if isIdentPart(r) {
			l.advance()
			continue
		}
		if r == '.' && isIdentStart(l.peekAt(1)) {
			l.advance()
			continue
		}
		break
	}
	return l.token(TokenIdent, l.input[start:l.pos], startPos, startLine, startCol)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
