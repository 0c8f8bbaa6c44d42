package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/rasi/lang/token"
)

// Predefined errors (sentinel values).
//
// Kinds form a hierarchy: an error of kind [ErrInvalidHexColor] also matches
// [ErrParse] with [errors.Is].
var (
	ErrLex                 = NewError("lex error")
	ErrInvalidCharacter    = ErrLex.Kind("invalid character")
	ErrUnterminatedString  = ErrLex.Kind("unterminated string")
	ErrUnterminatedComment = ErrLex.Kind("unterminated comment")

	ErrParse           = NewError("parse error")
	ErrUnexpected      = ErrParse.Kind("unexpected token")
	ErrInvalidHexColor = ErrParse.Kind("invalid hex color")
	ErrUnknownUnit     = ErrParse.Kind("unknown unit")

	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg      string
	err      error       // Wrapped error (for errors.Unwrap)
	kind     *Error      // Sentinel this error was derived from
	parent   *Error      // Enclosing kind (sentinels only)
	pos      token.Position
	expected []string
	attrs    []slog.Attr // Attributes for structured logging
}

// NewError creates a new root error kind with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// Kind creates a new error kind nested under e's kind.
func (e *Error) Kind(msg string) *Error {
	k := &Error{msg: msg, parent: e.kind}
	k.kind = k

	return k
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from whichever fields are set:
	//
	//   "<msg> at <line:col>: <err>"
	//   "<msg>: <err>"
	//   "<msg>"
	//   "<err>"
	var b strings.Builder

	b.WriteString(e.msg)

	if e.pos.IsValid() {
		if b.Len() > 0 {
			b.WriteString(" at ")
		}

		b.WriteString(e.pos.String())
	}

	for _, a := range e.attrs {
		switch a.Key {
		case "file", "found", "name", "raw":
			b.WriteString(" ")
			b.WriteString(strconv.Quote(a.Value.String()))
		}
	}

	if s, ok := e.Attr("suggestion"); ok {
		b.WriteString(" (did you mean ")
		b.WriteString(strconv.Quote(s.String()))
		b.WriteString("?)")
	}

	if len(e.expected) > 0 {
		b.WriteString(" (expected ")
		b.WriteString(strings.Join(e.Expected(), ", "))
		b.WriteString(")")
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e's kind or one of its enclosing kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind == nil {
		return false
	}

	for k := e.kind; k != nil; k = k.parent {
		if k == t.kind {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if len(e.expected) > 0 {
		attrs = append(attrs, slog.Any("expected", e.Expected()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// At returns a copy of the error located at pos.
func (e *Error) At(pos token.Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

// Expecting returns a copy of the error listing the tokens that would have
// been accepted.
func (e *Error) Expecting(what ...string) *Error {
	c := e.clone()
	c.expected = append(slices.Clone(e.expected), what...)

	return c
}

// Position returns the source position of the error, if known.
func (e *Error) Position() token.Position { return e.pos }

// Expected returns the sorted, quoted set of expected tokens.
func (e *Error) Expected() []string {
	exp := make([]string, 0, len(e.expected))
	for _, s := range e.expected {
		if !strings.HasPrefix(s, `"`) {
			s = strconv.Quote(s)
		}

		exp = append(exp, s)
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

func (e *Error) clone() *Error {
	c := *e
	if c.kind == nil {
		c.kind = e
	}

	c.parent = nil

	return &c
}

// PositionOf returns the source position of the first positioned error in
// err's chain.
func PositionOf(err error) (token.Position, bool) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		if e.pos.IsValid() {
			return e.pos, true
		}

		err = e.err
	}

	return token.Position{}, false
}

// Snippet renders the source line containing pos with a caret marking the
// column:
//
//	  3 | textbox { color: #ggg; }
//	                       ^
func Snippet(source string, pos token.Position) string {
	if !pos.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(strings.TrimRight(lines[pos.Line-1], "\r"))
	src.WriteByte('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	src.WriteString(padding)
	src.WriteString("^\n")

	return src.String()
}
