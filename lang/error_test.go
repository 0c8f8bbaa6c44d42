package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ardnew/rasi/lang/token"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same kind", ErrUnknownUnit.With(slog.String("raw", "pt")), ErrUnknownUnit, true},
		{"enclosing kind", ErrUnknownUnit.At(token.Position{Line: 1}), ErrParse, true},
		{"sibling kind", ErrUnknownUnit, ErrInvalidHexColor, false},
		{"other root", ErrInvalidCharacter, ErrParse, false},
		{"child of root", ErrParse, ErrUnexpected, false},
		{"wrapped by fmt", fmt.Errorf("load: %w", ErrUnterminatedString.At(token.Position{Line: 2})), ErrLex, true},
		{"wrapped cause", ErrReadInput.Wrap(io.ErrUnexpectedEOF), io.ErrUnexpectedEOF, true},
		{"derived kind", NewError("outer").Kind("inner").With(), ErrParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrParse, "parse error"},
		{
			"positioned",
			ErrInvalidHexColor.At(token.Position{Line: 3, Column: 9}).
				With(slog.String("raw", "#ggg")),
			`invalid hex color at 3:9 "#ggg"`,
		},
		{
			"expected set is sorted",
			ErrUnexpected.At(token.Position{Line: 1, Column: 1}).
				Expecting(`"}"`, "identifier", `"}"`),
			`unexpected token at 1:1 (expected "identifier", "}")`,
		},
		{
			"wrapped",
			ErrReadInput.Wrap(io.EOF).With(slog.String("source", "reader")),
			"failed to read input: EOF",
		},
		{"foreign", WrapError(io.EOF), "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_WithIsImmutable(t *testing.T) {
	base := ErrUnexpected.With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))

	if _, ok := base.Attr("b"); ok {
		t.Error("With() modified the receiver")
	}

	if _, ok := ErrUnexpected.Attr("a"); ok {
		t.Error("With() modified the sentinel")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrUnknownUnit.At(token.Position{Line: 2, Column: 4}).
		With(slog.String("raw", "3pt"))

	var b strings.Builder

	logger := slog.New(slog.NewTextHandler(&b, nil))
	logger.Error("failed", slog.Any("error", err))

	for _, want := range []string{"error.error=\"unknown unit\"", "error.line=2", "error.column=4", "error.raw=3pt"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("log output %q missing %q", b.String(), want)
		}
	}
}

func TestPositionOf(t *testing.T) {
	inner := ErrUnexpected.At(token.Position{Line: 4, Column: 2})
	outer := ErrReadInput.Wrap(inner)

	pos, ok := PositionOf(fmt.Errorf("context: %w", outer))
	if !ok || pos.Line != 4 || pos.Column != 2 {
		t.Errorf("PositionOf() = %v, %v; want 4:2", pos, ok)
	}

	if _, ok := PositionOf(io.EOF); ok {
		t.Error("PositionOf(io.EOF) reported a position")
	}
}

func TestSnippet(t *testing.T) {
	src := "a {\n  color: #ggg;\n}"

	got := Snippet(src, token.Position{Line: 2, Column: 10})
	want := "  2 |   color: #ggg;\n" + strings.Repeat(" ", 6+9) + "^\n"

	if got != want {
		t.Errorf("Snippet() =\n%s\nwant\n%s", got, want)
	}

	if got := Snippet(src, token.Position{Line: 9, Column: 1}); got != "" {
		t.Errorf("Snippet(out of range) = %q, want empty", got)
	}
}
