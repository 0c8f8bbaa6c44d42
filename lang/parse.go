package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/rasi/lang/token"
	"github.com/ardnew/rasi/log"
)

// Parse parses theme source into a Stylesheet, lexing lazily. The result is
// not cached; see [ParseString] and [ParseReader].
func Parse(ctx context.Context, src []byte, opts ...Option) (*Stylesheet, error) {
	return parse(ctx, NewLexer(src), makeConfig(opts...))
}

// ParseTokens parses a token stream produced by [Tokenize].
func ParseTokens(tokens []token.Token, opts ...Option) (*Stylesheet, error) {
	return parse(context.Background(), &sliceSource{tokens: tokens}, makeConfig(opts...))
}

type tokenSource interface {
	Next() (token.Token, error)
}

// sliceSource replays a token slice, returning a trailing EOF indefinitely.
type sliceSource struct {
	tokens []token.Token
	next   int
}

func (s *sliceSource) Next() (token.Token, error) {
	if s.next >= len(s.tokens) {
		var pos token.Position
		if n := len(s.tokens); n > 0 {
			pos = s.tokens[n-1].Pos
		}

		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	tok := s.tokens[s.next]
	s.next++

	return tok, nil
}

// parser holds the parser state: one token of lookahead over src.
type parser struct {
	src    tokenSource
	tok    token.Token
	cfg    config
	logger log.Logger
}

func parse(ctx context.Context, src tokenSource, cfg config) (*Stylesheet, error) {
	p := &parser{src: src, cfg: cfg, logger: cfg.logger}

	err := p.advance()
	if err != nil {
		return nil, err
	}

	ss, err := p.parseStylesheet()
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("entry_count", len(ss.Entries)))

	return ss, nil
}

// parseStylesheet parses: (variable_decl | rule)*.
func (p *parser) parseStylesheet() (*Stylesheet, error) {
	ss := new(Stylesheet)

	for p.tok.Kind != token.EOF {
		if p.tok.Kind == token.Variable {
			decl, err := p.parseVariableDecl()
			if err != nil {
				return nil, err
			}

			ss.Entries = append(ss.Entries, Entry{Variable: decl})

			continue
		}

		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}

		ss.Entries = append(ss.Entries, Entry{Rule: rule})
	}

	return ss, nil
}

// parseVariableDecl parses: VARIABLE ':' value ';'.
func (p *parser) parseVariableDecl() (*VariableDecl, error) {
	decl := &VariableDecl{Name: p.tok.Text, Pos: p.tok.Pos}

	err := p.advance()
	if err != nil {
		return nil, err
	}

	err = p.expect(token.Colon)
	if err != nil {
		return nil, err
	}

	decl.Value, err = p.parseValue()
	if err != nil {
		return nil, err
	}

	err = p.expect(token.Semi)
	if err != nil {
		return nil, err
	}

	return decl, nil
}

// parseRule parses: selector_list '{' (property (';' property)* ';'?)? '}'.
func (p *parser) parseRule() (*Rule, error) {
	rule := &Rule{Pos: p.tok.Pos}

	for {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}

		rule.Selectors = append(rule.Selectors, sel)

		if p.tok.Kind != token.Comma {
			break
		}

		err = p.advance()
		if err != nil {
			return nil, err
		}
	}

	err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}

	for p.tok.Kind != token.RBrace {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}

		rule.Properties = append(rule.Properties, prop)

		switch p.tok.Kind {
		case token.Semi:
			err = p.advance()
			if err != nil {
				return nil, err
			}

		case token.RBrace:

		default:
			return nil, p.unexpected(token.Semi.String(), token.RBrace.String())
		}
	}

	return rule, p.advance()
}

// parseSelector parses one selector:
//
//	'*' state?
//	IDENT HASH? (IDENT | '.' IDENT)?
//	HASH (IDENT | '.' IDENT)?
func (p *parser) parseSelector() (Selector, error) {
	var sel Selector

	switch p.tok.Kind {
	case token.Star:
		err := p.advance()
		if err != nil {
			return sel, err
		}

	case token.Ident:
		sel.Widget = p.tok.Text

		err := p.advance()
		if err != nil {
			return sel, err
		}

		if p.tok.Kind == token.Hash {
			sel.Instance = p.tok.Text

			err = p.advance()
			if err != nil {
				return sel, err
			}
		}

	case token.Hash:
		sel.Instance = p.tok.Text

		err := p.advance()
		if err != nil {
			return sel, err
		}

	default:
		return sel, p.unexpected("identifier", token.Star.String(), "#name")
	}

	switch p.tok.Kind {
	case token.Dot:
		err := p.advance()
		if err != nil {
			return sel, err
		}

		if p.tok.Kind != token.Ident {
			return sel, p.unexpected("state")
		}

		sel.State = p.tok.Text

		return sel, p.advance()

	case token.Ident:
		switch {
		case p.cfg.isState(p.tok.Text):
			sel.State = p.tok.Text
		case sel.Instance == "" && sel.Widget != "":
			sel.Instance = p.tok.Text
		default:
			return sel, p.unexpected(token.LBrace.String(), token.Comma.String())
		}

		err := p.advance()
		if err != nil {
			return sel, err
		}

		// "widget name.state"
		if sel.State == "" && p.tok.Kind == token.Dot {
			err = p.advance()
			if err != nil {
				return sel, err
			}

			if p.tok.Kind != token.Ident {
				return sel, p.unexpected("state")
			}

			sel.State = p.tok.Text

			return sel, p.advance()
		}
	}

	return sel, nil
}

// parseProperty parses: IDENT ':' value.
func (p *parser) parseProperty() (Property, error) {
	if p.tok.Kind != token.Ident {
		return Property{}, p.unexpected("property name", token.RBrace.String())
	}

	prop := Property{Name: p.tok.Text, Pos: p.tok.Pos}

	err := p.advance()
	if err != nil {
		return prop, err
	}

	err = p.expect(token.Colon)
	if err != nil {
		return prop, err
	}

	prop.Value, err = p.parseValue()

	return prop, err
}

// parseValue parses one or more primaries. A single primary is the value;
// two or four distances form a Rect.
func (p *parser) parseValue() (Value, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return Value{}, err
	}

	if p.atValueEnd() {
		return first, nil
	}

	parts := []Value{first}

	for !p.atValueEnd() {
		if len(parts) == 4 || first.Kind != KindDistance {
			return Value{}, p.unexpected(token.Semi.String())
		}

		if p.tok.Kind != token.Number {
			return Value{}, p.unexpected("distance")
		}

		v, err := p.parsePrimary()
		if err != nil {
			return Value{}, err
		}

		parts = append(parts, v)
	}

	var r Rect

	switch len(parts) {
	case 2:
		r = Symmetric(parts[0].Distance, parts[1].Distance)
	case 4:
		r = Rect{
			Top:    parts[0].Distance,
			Right:  parts[1].Distance,
			Bottom: parts[2].Distance,
			Left:   parts[3].Distance,
		}
	default:
		return Value{}, p.unexpected("distance")
	}

	v := NewRect(r)
	v.Pos = first.Pos

	return v, nil
}

func (p *parser) atValueEnd() bool {
	return p.tok.Is(
		token.Semi, token.RBrace, token.Comma,
		token.RBrack, token.RParen, token.EOF,
	)
}

// parsePrimary parses a single value term.
func (p *parser) parsePrimary() (Value, error) {
	tok := p.tok

	var v Value

	switch tok.Kind {
	case token.Hash:
		c, err := ParseColor("#" + tok.Text)
		if err != nil {
			return v, ErrInvalidHexColor.At(tok.Pos).
				With(slog.String("raw", "#"+tok.Text))
		}

		v = NewColor(c)

	case token.Number:
		d, err := distanceOf(tok)
		if err != nil {
			return v, err
		}

		v = NewDistance(d)

	case token.String:
		v = NewText(tok.Text)

	case token.Variable:
		v = NewVariable(tok.Text)

	case token.LBrack:
		return p.parseList()

	case token.Ident:
		err := p.advance()
		if err != nil {
			return v, err
		}

		if p.tok.Kind == token.LParen {
			switch tok.Text {
			case "rgb", "rgba":
				return p.parseRGB(tok)
			case "url":
				return p.parseURL(tok)
			}
		}

		v = NewKeyword(tok.Text)
		v.Pos = tok.Pos

		return v, nil

	default:
		return v, p.unexpected("value")
	}

	v.Pos = tok.Pos

	return v, p.advance()
}

// parseList parses: '[' (value (',' value)* ','?)? ']'.
func (p *parser) parseList() (Value, error) {
	v := NewList()
	v.Pos = p.tok.Pos

	err := p.advance()
	if err != nil {
		return v, err
	}

	for p.tok.Kind != token.RBrack {
		elem, err := p.parseValue()
		if err != nil {
			return v, err
		}

		v.List = append(v.List, elem)

		switch p.tok.Kind {
		case token.Comma:
			err = p.advance()
			if err != nil {
				return v, err
			}

		case token.RBrack:

		default:
			return v, p.unexpected(token.Comma.String(), token.RBrack.String())
		}
	}

	return v, p.advance()
}

// parseRGB parses the arguments of rgb(r, g, b) or rgba(r, g, b, a).
// Channels are 0-255 or percentages; alpha is 0-1 or a percentage.
func (p *parser) parseRGB(fn token.Token) (Value, error) {
	want := 3
	if fn.Text == "rgba" {
		want = 4
	}

	args, err := p.parseArgs(want)
	if err != nil {
		return Value{}, err
	}

	ch := make([]float64, len(args))

	for i, arg := range args {
		if arg.Kind != token.Number {
			return Value{}, ErrUnexpected.At(arg.Pos).
				Expecting("number").
				With(slog.String("found", arg.String()))
		}

		n, err := strconv.ParseFloat(arg.Text, 64)
		if err != nil {
			return Value{}, ErrUnexpected.At(arg.Pos).
				Expecting("number").
				With(slog.String("found", arg.String()))
		}

		switch {
		case arg.Unit == "%":
			ch[i] = n / 100
		case arg.Unit != "":
			return Value{}, ErrUnknownUnit.At(arg.Pos).
				With(slog.String("raw", arg.String()))
		case i == 3:
			ch[i] = n
		default:
			ch[i] = n / 255
		}
	}

	alpha := 1.0
	if want == 4 {
		alpha = ch[3]
	}

	v := NewColor(RGBA(ch[0], ch[1], ch[2], alpha))
	v.Pos = fn.Pos

	return v, nil
}

// parseURL parses the arguments of url("path") or url("path", scale).
func (p *parser) parseURL(fn token.Token) (Value, error) {
	args, err := p.parseArgs(1, 2)
	if err != nil {
		return Value{}, err
	}

	if args[0].Kind != token.String {
		return Value{}, ErrUnexpected.At(args[0].Pos).
			Expecting(token.String.String()).
			With(slog.String("found", args[0].String()))
	}

	img := Image{Path: args[0].Text}

	if len(args) == 2 {
		scale, ok := ParseScale(args[1].Text)
		if args[1].Kind != token.Ident || !ok {
			return Value{}, ErrUnexpected.At(args[1].Pos).
				Expecting("none", "width", "height", "both").
				With(slog.String("found", args[1].String()))
		}

		img.Scale = scale
	}

	v := NewImage(img)
	v.Pos = fn.Pos

	return v, nil
}

// parseArgs parses a parenthesized, comma-separated list of single tokens,
// accepting any of the given argument counts.
func (p *parser) parseArgs(counts ...int) ([]token.Token, error) {
	err := p.expect(token.LParen)
	if err != nil {
		return nil, err
	}

	var args []token.Token

	for p.tok.Kind != token.RParen {
		if len(args) > 0 {
			err = p.expect(token.Comma)
			if err != nil {
				return nil, err
			}
		}

		if !p.tok.Is(token.Number, token.String, token.Ident) {
			return nil, p.unexpected("argument")
		}

		args = append(args, p.tok)

		err = p.advance()
		if err != nil {
			return nil, err
		}
	}

	ok := false
	for _, n := range counts {
		ok = ok || len(args) == n
	}

	if !ok {
		return nil, ErrUnexpected.At(p.tok.Pos).
			Expecting("argument").
			With(slog.String("found", p.tok.String()),
				slog.Int("args", len(args)))
	}

	return args, p.advance()
}

// distanceOf converts a number token to a Distance.
func distanceOf(tok token.Token) (Distance, error) {
	m, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return Distance{}, ErrUnexpected.At(tok.Pos).
			Expecting("number").
			With(slog.String("found", tok.String()))
	}

	u, err := ParseUnit(tok.Unit)
	if err != nil {
		return Distance{}, ErrUnknownUnit.At(tok.Pos).
			With(slog.String("raw", tok.String()))
	}

	return Distance{m, u}, nil
}

// Helper methods

func (p *parser) advance() error {
	tok, err := p.src.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) expect(kind token.Kind) error {
	if p.tok.Kind != kind {
		return p.unexpected(kind.String())
	}

	return p.advance()
}

func (p *parser) unexpected(expected ...string) *Error {
	return ErrUnexpected.At(p.tok.Pos).
		Expecting(expected...).
		With(slog.String("found", p.tok.String()))
}
