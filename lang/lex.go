package lang

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/rasi/lang/token"
)

// Lexer produces tokens from theme source text on demand.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{input: src, line: 1, col: 1}
}

// Tokenize converts src into a token stream terminated by a [token.EOF]
// token. It fails on the first lexical error.
func Tokenize(src []byte) ([]token.Token, error) {
	lx := NewLexer(src)
	out := make([]token.Token, 0, len(src)/4)

	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}

		out = append(out, tok)

		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

// Next scans and returns the next token. At end of input it returns a
// [token.EOF] token, repeatedly.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.position()

	if l.eof() {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	ch := l.peek()

	switch {
	case isIdentStart(ch):
		return token.Token{Kind: token.Ident, Text: l.scanIdent(), Pos: pos}, nil

	case ch == '@':
		l.advance()

		if !isIdentStart(l.peek()) {
			return token.Token{}, l.invalid(pos, '@')
		}

		return token.Token{Kind: token.Variable, Text: l.scanIdent(), Pos: pos}, nil

	case ch == '"':
		return l.scanString(pos)

	case isDigit(ch) || (ch == '-' && isDigit(l.peekAt(1))) ||
		(ch == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber(pos), nil

	case ch == '#':
		l.advance()

		start := l.pos
		for !l.eof() && isHashContinue(l.peek()) {
			l.advance()
		}

		if l.pos == start {
			return token.Token{}, l.invalid(pos, '#')
		}

		return token.Token{
			Kind: token.Hash,
			Text: string(l.input[start:l.pos]),
			Pos:  pos,
		}, nil
	}

	if ch < utf8.RuneSelf {
		if kind, ok := token.Punct[byte(ch)]; ok {
			l.advance()

			return token.Token{Kind: kind, Pos: pos}, nil
		}
	}

	return token.Token{}, l.invalid(pos, ch)
}

func (l *Lexer) invalid(pos token.Position, ch rune) *Error {
	return ErrInvalidCharacter.At(pos).
		With(slog.String("found", string(ch)))
}

func (l *Lexer) scanIdent() string {
	start := l.pos

	l.advance()

	for !l.eof() && isIdentContinue(l.peek()) {
		l.advance()
	}

	return string(l.input[start:l.pos])
}

// scanNumber scans an optionally signed decimal literal and any unit suffix
// attached to it without intervening space.
func (l *Lexer) scanNumber(pos token.Position) token.Token {
	start := l.pos

	if l.peek() == '-' {
		l.advance()
	}

	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	text := string(l.input[start:l.pos])

	unitStart := l.pos
	if l.peek() == '%' {
		l.advance()
	} else {
		for !l.eof() && isUnitRune(l.peek()) {
			l.advance()
		}
	}

	return token.Token{
		Kind: token.Number,
		Text: text,
		Unit: string(l.input[unitStart:l.pos]),
		Pos:  pos,
	}
}

func (l *Lexer) scanString(pos token.Position) (token.Token, error) {
	l.advance() // opening quote

	var b strings.Builder

	for {
		if l.eof() || l.peek() == '\n' {
			return token.Token{}, ErrUnterminatedString.At(pos)
		}

		ch := l.peek()
		l.advance()

		switch ch {
		case '"':
			return token.Token{Kind: token.String, Text: b.String(), Pos: pos}, nil

		case '\\':
			if l.eof() {
				return token.Token{}, ErrUnterminatedString.At(pos)
			}

			esc := l.peek()
			l.advance()

			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(esc)
			}

		default:
			b.WriteRune(ch)
		}
	}
}

// Helper methods

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return rune(l.input[l.pos+n])
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.eof() {
		switch ch := l.peek(); {
		case unicode.IsSpace(ch):
			l.advance()

		case ch == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case ch == '/' && l.peekAt(1) == '*':
			pos := l.position()

			l.advance()
			l.advance()

			for !l.eof() && (l.peek() != '*' || l.peekAt(1) != '/') {
				l.advance()
			}

			if l.eof() {
				return ErrUnterminatedComment.At(pos)
			}

			l.advance()
			l.advance()

		default:
			return nil
		}
	}

	return nil
}

// Character classification

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDigit(r) || r == '-'
}

func isHashContinue(r rune) bool {
	return isIdentContinue(r)
}

func isUnitRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
