// Package token defines the lexical tokens of the rasi theme language and
// their source positions.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	EOF      Kind = iota // end of input
	Ident                // identifier
	Variable             // variable
	String               // string
	Number               // number
	Hash                 // hash
	LBrace               // "{"
	RBrace               // "}"
	Colon                // ":"
	Semi                 // ";"
	Comma                // ","
	LBrack               // "["
	RBrack               // "]"
	LParen               // "("
	RParen               // ")"
	Dot                  // "."
	Star                 // "*"
)

var kindName = [...]string{
	EOF:      "end of input",
	Ident:    "identifier",
	Variable: "variable",
	String:   "string",
	Number:   "number",
	Hash:     "hash",
	LBrace:   `"{"`,
	RBrace:   `"}"`,
	Colon:    `":"`,
	Semi:     `";"`,
	Comma:    `","`,
	LBrack:   `"["`,
	RBrack:   `"]"`,
	LParen:   `"("`,
	RParen:   `")"`,
	Dot:      `"."`,
	Star:     `"*"`,
}

// String returns a human-readable name for the kind, suitable for use in
// diagnostics ("identifier", `"{"`).
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Punct maps single-byte punctuation to its token kind.
var Punct = map[byte]Kind{
	'{': LBrace,
	'}': RBrace,
	':': Colon,
	';': Semi,
	',': Comma,
	'[': LBrack,
	']': RBrack,
	'(': LParen,
	')': RParen,
	'.': Dot,
	'*': Star,
}

// Position is a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position refers to a location in source.
func (p Position) IsValid() bool { return p.Line > 0 }

// String formats the position as "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical token.
//
// Text holds the token's decoded content: the identifier or variable name
// (without '@'), the unquoted string, the numeric literal (without unit), or
// the hash word (without '#'). Unit holds a number's suffix verbatim.
type Token struct {
	Kind Kind
	Text string
	Unit string
	Pos  Position
}

// Is reports whether the token has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}

	return false
}

// String renders the token approximately as it appeared in source.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Ident:
		return t.Text
	case Variable:
		return "@" + t.Text
	case String:
		return strconv.Quote(t.Text)
	case Number:
		return t.Text + t.Unit
	case Hash:
		return "#" + t.Text
	default:
		return strings.Trim(t.Kind.String(), `"`)
	}
}
