package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/rasi/lang"
)

// Tree is an immutable, fully resolved theme. It is safe for concurrent use.
//
// The zero Tree, and a nil *Tree, resolve every query to its default.
type Tree struct {
	entries  []*entry
	buckets  map[bucketKey][]*entry
	widgets  []string // sorted
	states   []string // sorted
	vars     map[string]lang.Value
	varNames []string
}

// Query identifies the widget whose properties are resolved. Empty fields are
// absent: no instance name, no state.
type Query struct {
	Widget   string
	Instance string
	State    string
}

// String formats q like a selector.
func (q Query) String() string { return lang.Selector(q).String() }

func (t *Tree) bucket(widget, state string) []*entry {
	key := bucketKey{widget, state}

	if _, ok := slices.BinarySearch(t.widgets, widget); !ok {
		key.widget = ""
	}

	if _, ok := slices.BinarySearch(t.states, state); !ok {
		key.state = ""
	}

	return t.buckets[key]
}

// Lookup returns the value of property for q: the first entry, in order of
// decreasing specificity and then decreasing declaration order, that
// matches q and defines property with something other than the keyword
// "inherit".
func (t *Tree) Lookup(q Query, property string) (lang.Value, bool) {
	if t == nil {
		return lang.Value{}, false
	}

	for _, e := range t.bucket(q.Widget, q.State) {
		if e.sel.Instance != "" && e.sel.Instance != q.Instance {
			continue
		}

		v, ok := e.props[property]
		if !ok || v.IsKeyword("inherit") {
			continue
		}

		return v, true
	}

	return lang.Value{}, false
}

// Resolve returns the value of property for the given widget type, instance
// name and state, or def if nothing defines it. Empty instance and state
// mean none.
func (t *Tree) Resolve(widget, instance, state, property string, def lang.Value) lang.Value {
	if v, ok := t.Lookup(Query{widget, instance, state}, property); ok {
		return v
	}

	return def
}

// Color returns property as a color, or def if it is unset or not a color.
func (t *Tree) Color(q Query, property string, def lang.Color) lang.Color {
	if v, ok := t.Lookup(q, property); ok {
		if c, ok := v.AsColor(); ok {
			return c
		}
	}

	return def
}

// Distance returns property as a distance, or def.
func (t *Tree) Distance(q Query, property string, def lang.Distance) lang.Distance {
	if v, ok := t.Lookup(q, property); ok {
		if d, ok := v.AsDistance(); ok {
			return d
		}
	}

	return def
}

// Padding returns property as a rect, or def. A single distance applies to
// all four sides.
func (t *Tree) Padding(q Query, property string, def lang.Rect) lang.Rect {
	if v, ok := t.Lookup(q, property); ok {
		if r, ok := v.AsRect(); ok {
			return r
		}
	}

	return def
}

// Text returns property as a string, or def.
func (t *Tree) Text(q Query, property, def string) string {
	if v, ok := t.Lookup(q, property); ok {
		if s, ok := v.AsText(); ok {
			return s
		}
	}

	return def
}

// Number returns the magnitude of property, or def.
func (t *Tree) Number(q Query, property string, def float64) float64 {
	if v, ok := t.Lookup(q, property); ok {
		if n, ok := v.AsNumber(); ok {
			return n
		}
	}

	return def
}

// Bool returns property as a boolean, or def.
func (t *Tree) Bool(q Query, property string, def bool) bool {
	if v, ok := t.Lookup(q, property); ok {
		if b, ok := v.AsBool(); ok {
			return b
		}
	}

	return def
}

// Image returns property as an image.
func (t *Tree) Image(q Query, property string) (lang.Image, bool) {
	if v, ok := t.Lookup(q, property); ok {
		return v.AsImage()
	}

	return lang.Image{}, false
}

// Children returns the names listed in the widget's "children" property.
func (t *Tree) Children(widget string) []string {
	if v, ok := t.Lookup(Query{Widget: widget}, "children"); ok {
		if names, ok := v.AsStrings(); ok {
			return names
		}
	}

	return nil
}

// Orientation returns the widget's "orientation" property, or def.
func (t *Tree) Orientation(widget string, def lang.Orientation) lang.Orientation {
	if v, ok := t.Lookup(Query{Widget: widget}, "orientation"); ok {
		if o, ok := v.AsOrientation(); ok {
			return o
		}
	}

	return def
}

// Expand returns the widget's "expand" property, or def.
func (t *Tree) Expand(widget string, def bool) bool {
	return t.Bool(Query{Widget: widget}, "expand", def)
}

// Spacing returns the widget's "spacing" property, or def.
func (t *Tree) Spacing(widget string, def lang.Distance) lang.Distance {
	return t.Distance(Query{Widget: widget}, "spacing", def)
}

// Widgets returns the sorted widget types named by any selector.
func (t *Tree) Widgets() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.widgets)
}

// States returns the sorted states named by any selector.
func (t *Tree) States() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.states)
}

// Properties returns the sorted names of the properties that resolve for q.
func (t *Tree) Properties(q Query) []string {
	if t == nil {
		return nil
	}

	var names []string

	for _, e := range t.bucket(q.Widget, q.State) {
		if e.sel.Instance != "" && e.sel.Instance != q.Instance {
			continue
		}

		for name := range e.props {
			names = append(names, name)
		}
	}

	slices.Sort(names)
	names = slices.Compact(names)

	return slices.DeleteFunc(names, func(name string) bool {
		_, ok := t.Lookup(q, name)

		return !ok
	})
}

// Variables returns the resolved variables by name.
func (t *Tree) Variables() map[string]lang.Value {
	if t == nil {
		return nil
	}

	return maps.Clone(t.vars)
}

// Variable returns the resolved value of the named variable.
func (t *Tree) Variable(name string) (lang.Value, bool) {
	if t == nil {
		return lang.Value{}, false
	}

	v, ok := t.vars[name]

	return v, ok
}

// VariableNames returns the variable names in order of first declaration.
func (t *Tree) VariableNames() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.varNames)
}

// Queries returns one query for each distinct selector, sorted by its
// string form.
func (t *Tree) Queries() []Query {
	if t == nil {
		return nil
	}

	seen := make(map[Query]bool, len(t.entries))
	out := make([]Query, 0, len(t.entries))

	for _, e := range t.entries {
		q := Query(e.sel)
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}

	slices.SortFunc(out, func(a, b Query) int {
		return strings.Compare(a.String(), b.String())
	})

	return out
}

// Suggest returns the known widget type or property name closest to name.
func (t *Tree) Suggest(name string, q *Query) (string, bool) {
	if q == nil {
		return suggest(name, t.Widgets())
	}

	return suggest(name, t.Properties(*q))
}

// Native converts the resolved theme to plain maps:
//
//	variables: {name: value, ...}
//	widgets:   {selector: {property: value, ...}, ...}
func (t *Tree) Native() map[string]any {
	vars := make(map[string]any)
	widgets := make(map[string]any)

	if t != nil {
		for name, v := range t.vars {
			vars[name] = v.Native()
		}

		for _, q := range t.Queries() {
			props := make(map[string]any)

			for _, name := range t.Properties(q) {
				v, _ := t.Lookup(q, name)
				props[name] = v.Native()
			}

			widgets[q.String()] = props
		}
	}

	return map[string]any{
		"variables": vars,
		"widgets":   widgets,
	}
}

// FormatJSON writes the resolved theme as JSON.
func (t *Tree) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(t.Native(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(t.Native())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the resolved theme as YAML.
func (t *Tree) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, t.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
