package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Unit is the unit of a [Distance].
type Unit int

const (
	Pixels      Unit = iota // px
	Percent                 // %
	Em                      // em
	Millimeters             // mm
)

// String returns the unit's source suffix.
func (u Unit) String() string {
	switch u {
	case Pixels:
		return "px"
	case Percent:
		return "%"
	case Em:
		return "em"
	case Millimeters:
		return "mm"
	default:
		return "Unit(" + strconv.Itoa(int(u)) + ")"
	}
}

// ParseUnit parses a distance unit suffix. The empty suffix is [Pixels].
func ParseUnit(raw string) (Unit, error) {
	switch strings.ToLower(raw) {
	case "", "px":
		return Pixels, nil
	case "%":
		return Percent, nil
	case "em":
		return Em, nil
	case "mm":
		return Millimeters, nil
	default:
		return 0, ErrUnknownUnit.With(slog.String("raw", raw))
	}
}

// Distance is a magnitude with a unit. It keeps its unit until resolved
// against a [ResolutionContext].
type Distance struct {
	Magnitude float64
	Unit      Unit
}

// Px returns a distance in pixels.
func Px(m float64) Distance { return Distance{m, Pixels} }

// Pct returns a distance in percent of the parent dimension.
func Pct(m float64) Distance { return Distance{m, Percent} }

// Ems returns a distance in multiples of the font size.
func Ems(m float64) Distance { return Distance{m, Em} }

// Mm returns a distance in millimeters.
func Mm(m float64) Distance { return Distance{m, Millimeters} }

// ParseDistance parses a number with an optional unit suffix, such as "12",
// "4px", "50%" or "1.5em".
func ParseDistance(raw string) (Distance, error) {
	s := strings.TrimSpace(raw)

	end := len(s)
	for i := range len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || (i == 0 && c == '-') {
			continue
		}

		end = i

		break
	}

	m, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return Distance{}, ErrUnexpected.
			Expecting("number").
			With(slog.String("found", raw))
	}

	u, err := ParseUnit(s[end:])
	if err != nil {
		return Distance{}, ErrUnknownUnit.With(slog.String("raw", raw))
	}

	return Distance{m, u}, nil
}

// ResolutionContext supplies the environment needed to convert a Distance to
// pixels. A zero DPI means 96 and a zero Scale means 1.
type ResolutionContext struct {
	ParentDimension float64
	FontSize        float64
	DPI             float64
	Scale           float64
}

// DefaultDPI is the DPI assumed when a ResolutionContext leaves it unset.
const DefaultDPI = 96

// Pixels converts d to pixels in the given context.
func (d Distance) Pixels(ctx ResolutionContext) float64 {
	scale := ctx.Scale
	if scale == 0 {
		scale = 1
	}

	switch d.Unit {
	case Percent:
		return d.Magnitude / 100 * ctx.ParentDimension
	case Em:
		return d.Magnitude * ctx.FontSize * scale
	case Millimeters:
		dpi := ctx.DPI
		if dpi == 0 {
			dpi = DefaultDPI
		}

		return d.Magnitude * dpi / 25.4
	default:
		return d.Magnitude * scale
	}
}

// String formats the distance in source syntax.
func (d Distance) String() string {
	return strconv.FormatFloat(d.Magnitude, 'f', -1, 64) + d.Unit.String()
}

// Rect holds four distances, such as a padding or margin.
type Rect struct {
	Top, Right, Bottom, Left Distance
}

// Uniform returns a Rect with all sides equal to d.
func Uniform(d Distance) Rect { return Rect{d, d, d, d} }

// Symmetric returns a Rect from vertical and horizontal distances.
func Symmetric(vertical, horizontal Distance) Rect {
	return Rect{vertical, horizontal, vertical, horizontal}
}

// Pixels resolves every side of r.
func (r Rect) Pixels(ctx ResolutionContext) (top, right, bottom, left float64) {
	return r.Top.Pixels(ctx), r.Right.Pixels(ctx),
		r.Bottom.Pixels(ctx), r.Left.Pixels(ctx)
}

// String formats the rect in its shortest source form.
func (r Rect) String() string {
	switch {
	case r.Top == r.Bottom && r.Left == r.Right && r.Top == r.Left:
		return r.Top.String()
	case r.Top == r.Bottom && r.Left == r.Right:
		return r.Top.String() + " " + r.Right.String()
	default:
		return strings.Join([]string{
			r.Top.String(), r.Right.String(),
			r.Bottom.String(), r.Left.String(),
		}, " ")
	}
}

// Orientation is the layout direction of a container.
type Orientation int

const (
	Vertical   Orientation = iota // vertical
	Horizontal                    // horizontal
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}

	return "vertical"
}

// ParseOrientation parses "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToLower(s) {
	case "horizontal":
		return Horizontal, true
	case "vertical":
		return Vertical, true
	default:
		return 0, false
	}
}

// Scale controls how an image fits its widget.
type Scale int

const (
	ScaleNone   Scale = iota // none
	ScaleWidth               // width
	ScaleHeight              // height
	ScaleBoth                // both
)

var scaleName = [...]string{"none", "width", "height", "both"}

// String implements fmt.Stringer.
func (s Scale) String() string {
	if s < 0 || int(s) >= len(scaleName) {
		return "none"
	}

	return scaleName[s]
}

// ParseScale parses an image scale keyword.
func ParseScale(s string) (Scale, bool) {
	for i, name := range scaleName {
		if strings.EqualFold(s, name) {
			return Scale(i), true
		}
	}

	return 0, false
}

// Image refers to an image file and how to scale it.
type Image struct {
	Path  string
	Scale Scale
}
