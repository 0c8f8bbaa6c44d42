package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

// RGBA returns a color from floating-point channels, clamped to [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}
}

// RGBA8 returns a color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		float64(r) / 255,
		float64(g) / 255,
		float64(b) / 255,
		float64(a) / 255,
	}
}

// ParseColor parses a hex color of the form #RGB, #RGBA, #RRGGBB or
// #RRGGBBAA. A missing alpha channel is fully opaque.
func ParseColor(raw string) (Color, error) {
	invalid := func() (Color, error) {
		return Color{}, ErrInvalidHexColor.With(slog.String("raw", raw))
	}

	hex, ok := strings.CutPrefix(raw, "#")
	if !ok {
		return invalid()
	}

	var ch [4]uint8

	ch[3] = 0xff

	switch len(hex) {
	case 3, 4:
		for i := range len(hex) {
			d, ok := hexDigit(hex[i])
			if !ok {
				return invalid()
			}

			ch[i] = d<<4 | d
		}

	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			hi, ok1 := hexDigit(hex[i])
			lo, ok2 := hexDigit(hex[i+1])

			if !ok1 || !ok2 {
				return invalid()
			}

			ch[i/2] = hi<<4 | lo
		}

	default:
		return invalid()
	}

	return RGBA8(ch[0], ch[1], ch[2], ch[3]), nil
}

// MustParseColor is like [ParseColor] but panics on error.
func MustParseColor(raw string) Color {
	c, err := ParseColor(raw)
	if err != nil {
		panic(err)
	}

	return c
}

// NamedColor returns the color with the given CSS-style name.
func NamedColor(name string) (Color, bool) {
	c, ok := namedColor[strings.ToLower(name)]

	return c, ok
}

var namedColor = map[string]Color{
	"black":       Black,
	"white":       White,
	"transparent": Transparent,
	"red":         RGBA8(255, 0, 0, 255),
	"green":       RGBA8(0, 128, 0, 255),
	"blue":        RGBA8(0, 0, 255, 255),
	"gray":        RGBA8(128, 128, 128, 255),
	"grey":        RGBA8(128, 128, 128, 255),
	"silver":      RGBA8(192, 192, 192, 255),
	"maroon":      RGBA8(128, 0, 0, 255),
	"yellow":      RGBA8(255, 255, 0, 255),
	"olive":       RGBA8(128, 128, 0, 255),
	"lime":        RGBA8(0, 255, 0, 255),
	"aqua":        RGBA8(0, 255, 255, 255),
	"cyan":        RGBA8(0, 255, 255, 255),
	"teal":        RGBA8(0, 128, 128, 255),
	"navy":        RGBA8(0, 0, 128, 255),
	"fuchsia":     RGBA8(255, 0, 255, 255),
	"magenta":     RGBA8(255, 0, 255, 255),
	"purple":      RGBA8(128, 0, 128, 255),
	"orange":      RGBA8(255, 165, 0, 255),
	"pink":        RGBA8(255, 192, 203, 255),
	"brown":       RGBA8(165, 42, 42, 255),
}

// Bytes returns the color's channels scaled to 8 bits.
func (c Color) Bytes() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	r, g, b, a := c.Bytes()

	buf := make([]byte, 0, 9)
	buf = append(buf, '#')

	for _, v := range []uint8{r, g, b} {
		buf = appendHex8(buf, v)
	}

	if a != 0xff {
		buf = appendHex8(buf, a)
	}

	return string(buf)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// Colorful converts the color's RGB channels to a [colorful.Color].
// Alpha is discarded.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Blend mixes c toward o by t in [0, 1] using the CIE-L*a*b* space.
// Alpha is interpolated linearly.
func (c Color) Blend(o Color, t float64) Color {
	t = clamp01(t)
	m := c.Colorful().BlendLab(o.Colorful(), t).Clamped()

	return RGBA(m.R, m.G, m.B, c.A+(o.A-c.A)*t)
}

// Luminance returns the relative luminance of the color.
func (c Color) Luminance() float64 {
	r, g, b := c.Colorful().LinearRgb()

	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Contrast returns the contrast ratio between c and o, in [1, 21].
func (c Color) Contrast(o Color) float64 {
	l1, l2 := c.Luminance(), o.Luminance()
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func appendHex8(buf []byte, v uint8) []byte {
	if v < 0x10 {
		buf = append(buf, '0')
	}

	return strconv.AppendUint(buf, uint64(v), 16)
}
