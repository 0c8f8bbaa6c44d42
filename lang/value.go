package lang

import (
	"slices"
	"strings"

	"github.com/ardnew/rasi/lang/token"
)

// Kind indicates the variant held by a [Value].
type Kind int

const (
	// KindInvalid is the zero Kind; the zero Value holds nothing.
	KindInvalid Kind = iota

	// KindColor represents a color.
	KindColor

	// KindDistance represents a unit-bearing distance or a bare number.
	KindDistance

	// KindRect represents four distances (top, right, bottom, left).
	KindRect

	// KindKeyword represents a bare identifier such as "none" or "true".
	KindKeyword

	// KindText represents a quoted string.
	KindText

	// KindList represents a bracketed list of values.
	KindList

	// KindVariable represents an unresolved reference to a variable.
	KindVariable

	// KindImage represents an image reference created with url().
	KindImage
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindColor:
		return "Color"
	case KindDistance:
		return "Distance"
	case KindRect:
		return "Rect"
	case KindKeyword:
		return "Keyword"
	case KindText:
		return "Text"
	case KindList:
		return "List"
	case KindVariable:
		return "Variable"
	case KindImage:
		return "Image"
	default:
		return "Invalid"
	}
}

// Value is a typed property value. Exactly one payload field is meaningful,
// selected by Kind.
type Value struct {
	Kind     Kind
	Color    Color
	Distance Distance
	Rect     Rect
	Text     string // Keyword, Text, and Variable name
	List     []Value
	Image    Image
	Pos      token.Position
}

// NewColor returns a color value.
func NewColor(c Color) Value { return Value{Kind: KindColor, Color: c} }

// NewDistance returns a distance value.
func NewDistance(d Distance) Value { return Value{Kind: KindDistance, Distance: d} }

// NewRect returns a rect value.
func NewRect(r Rect) Value { return Value{Kind: KindRect, Rect: r} }

// NewKeyword returns a keyword value.
func NewKeyword(s string) Value { return Value{Kind: KindKeyword, Text: s} }

// NewText returns a text value.
func NewText(s string) Value { return Value{Kind: KindText, Text: s} }

// NewList returns a list value.
func NewList(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// NewVariable returns a reference to the named variable.
func NewVariable(name string) Value { return Value{Kind: KindVariable, Text: name} }

// NewImage returns an image value.
func NewImage(img Image) Value { return Value{Kind: KindImage, Image: img} }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.Kind != KindInvalid }

// IsKeyword reports whether v is the keyword s, ignoring case.
func (v Value) IsKeyword(s string) bool {
	return v.Kind == KindKeyword && strings.EqualFold(v.Text, s)
}

// Equal reports whether v and o hold the same value. Positions are ignored.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindColor:
		return v.Color == o.Color
	case KindDistance:
		return v.Distance == o.Distance
	case KindRect:
		return v.Rect == o.Rect
	case KindKeyword, KindText, KindVariable:
		return v.Text == o.Text
	case KindList:
		return slices.EqualFunc(v.List, o.List, Value.Equal)
	case KindImage:
		return v.Image == o.Image
	default:
		return true
	}
}

// HasVariables reports whether v contains any variable reference.
func (v Value) HasVariables() bool {
	switch v.Kind {
	case KindVariable:
		return true
	case KindList:
		return slices.ContainsFunc(v.List, Value.HasVariables)
	default:
		return false
	}
}

// AsColor returns the color held by v. Keywords naming a color are
// converted.
func (v Value) AsColor() (Color, bool) {
	switch v.Kind {
	case KindColor:
		return v.Color, true
	case KindKeyword:
		return NamedColor(v.Text)
	default:
		return Color{}, false
	}
}

// AsDistance returns the distance held by v.
func (v Value) AsDistance() (Distance, bool) {
	if v.Kind == KindDistance {
		return v.Distance, true
	}

	return Distance{}, false
}

// AsRect returns v as a rect. A single distance applies to all sides.
func (v Value) AsRect() (Rect, bool) {
	switch v.Kind {
	case KindRect:
		return v.Rect, true
	case KindDistance:
		return Uniform(v.Distance), true
	default:
		return Rect{}, false
	}
}

// AsText returns the string held by a text or keyword value.
func (v Value) AsText() (string, bool) {
	switch v.Kind {
	case KindText, KindKeyword:
		return v.Text, true
	default:
		return "", false
	}
}

// AsNumber returns the magnitude of a distance value.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind == KindDistance {
		return v.Distance.Magnitude, true
	}

	return 0, false
}

// AsBool interprets the keywords true/false, yes/no, and on/off.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindKeyword {
		return false, false
	}

	switch strings.ToLower(v.Text) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// AsStrings returns the elements of a list of text or keyword values.
func (v Value) AsStrings() ([]string, bool) {
	if v.Kind != KindList {
		return nil, false
	}

	out := make([]string, 0, len(v.List))
	for _, e := range v.List {
		s, ok := e.AsText()
		if !ok {
			return nil, false
		}

		out = append(out, s)
	}

	return out, true
}

// AsImage returns the image held by v.
func (v Value) AsImage() (Image, bool) {
	if v.Kind == KindImage {
		return v.Image, true
	}

	return Image{}, false
}

// AsOrientation interprets the keywords horizontal and vertical.
func (v Value) AsOrientation() (Orientation, bool) {
	if v.Kind != KindKeyword {
		return 0, false
	}

	return ParseOrientation(v.Text)
}

// String formats v in source syntax.
func (v Value) String() string {
	switch v.Kind {
	case KindColor:
		return v.Color.Hex()
	case KindDistance:
		return v.Distance.String()
	case KindRect:
		return v.Rect.String()
	case KindKeyword:
		return v.Text
	case KindText:
		return quote(v.Text)
	case KindList:
		elems := make([]string, len(v.List))
		for i, e := range v.List {
			elems[i] = e.String()
		}

		return "[" + strings.Join(elems, ", ") + "]"
	case KindVariable:
		return "@" + v.Text
	case KindImage:
		if v.Image.Scale == ScaleNone {
			return "url(" + quote(v.Image.Path) + ")"
		}

		return "url(" + quote(v.Image.Path) + ", " + v.Image.Scale.String() + ")"
	default:
		return ""
	}
}

// Native converts v to plain Go values suitable for JSON or YAML encoding.
func (v Value) Native() any {
	switch v.Kind {
	case KindColor, KindDistance, KindRect, KindVariable:
		return v.String()
	case KindKeyword:
		if b, ok := v.AsBool(); ok {
			return b
		}

		return v.Text
	case KindText:
		return v.Text
	case KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = e.Native()
		}

		return out
	case KindImage:
		return map[string]any{
			"url":   v.Image.Path,
			"scale": v.Image.Scale.String(),
		}
	default:
		return nil
	}
}

// quote encloses s in double quotes using only the escapes the lexer
// understands.
func quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
