package lang

import (
	"iter"
	"strings"

	"github.com/ardnew/rasi/lang/token"
)

// Stylesheet is the abstract syntax tree of one theme source: an ordered
// sequence of rules and variable declarations.
//
// Stylesheets returned by the cached parse functions are shared between
// callers and must not be modified.
type Stylesheet struct {
	Entries []Entry
}

// Entry is a top-level stylesheet item. Exactly one field is non-nil.
type Entry struct {
	Rule     *Rule
	Variable *VariableDecl
}

// VariableDecl declares a variable: @name: value;.
type VariableDecl struct {
	Name  string
	Value Value
	Pos   token.Position
}

// Rule is a selector list and its property declarations.
type Rule struct {
	Selectors  []Selector
	Properties []Property
	Pos        token.Position
}

// Property is a single name: value declaration within a rule.
type Property struct {
	Name  string
	Value Value
	Pos   token.Position
}

// Selector is the (widget type, instance name, state) pattern a rule matches.
// Empty fields are absent; a selector with neither Widget nor Instance is
// the universal selector "*".
type Selector struct {
	Widget   string
	Instance string
	State    string
}

// Specificity weights.
const (
	SpecificityInstance = 4
	SpecificityState    = 2
	SpecificityWidget   = 1
)

// Specificity returns the selector's additive specificity score.
func (s Selector) Specificity() int {
	score := 0

	if s.Instance != "" {
		score += SpecificityInstance
	}

	if s.State != "" {
		score += SpecificityState
	}

	if s.Widget != "" {
		score += SpecificityWidget
	}

	return score
}

// IsUniversal reports whether s matches every widget type and instance.
func (s Selector) IsUniversal() bool {
	return s.Widget == "" && s.Instance == ""
}

// Matches reports whether s applies to the given widget, instance and state.
// Empty query fields match only selectors that leave them unconstrained.
func (s Selector) Matches(widget, instance, state string) bool {
	return (s.Widget == "" || s.Widget == widget) &&
		(s.Instance == "" || s.Instance == instance) &&
		(s.State == "" || s.State == state)
}

// String formats s in source syntax.
func (s Selector) String() string {
	var b strings.Builder

	switch {
	case s.IsUniversal():
		b.WriteByte('*')
	default:
		b.WriteString(s.Widget)

		if s.Instance != "" {
			b.WriteByte('#')
			b.WriteString(s.Instance)
		}
	}

	if s.State != "" {
		b.WriteByte('.')
		b.WriteString(s.State)
	}

	return b.String()
}

// Rules returns an iterator over the stylesheet's rules in order.
func (ss *Stylesheet) Rules() iter.Seq[*Rule] {
	return func(yield func(*Rule) bool) {
		for _, e := range ss.Entries {
			if e.Rule != nil && !yield(e.Rule) {
				return
			}
		}
	}
}

// Variables returns an iterator over the stylesheet's variable declarations
// in order.
func (ss *Stylesheet) Variables() iter.Seq[*VariableDecl] {
	return func(yield func(*VariableDecl) bool) {
		for _, e := range ss.Entries {
			if e.Variable != nil && !yield(e.Variable) {
				return
			}
		}
	}
}

// DefineVariable appends a variable declaration and returns it.
func (ss *Stylesheet) DefineVariable(name string, value Value) *VariableDecl {
	v := &VariableDecl{Name: name, Value: value}
	ss.Entries = append(ss.Entries, Entry{Variable: v})

	return v
}

// DefineRule appends a rule for the given selectors and returns it.
func (ss *Stylesheet) DefineRule(selectors ...Selector) *Rule {
	r := &Rule{Selectors: selectors}
	ss.Entries = append(ss.Entries, Entry{Rule: r})

	return r
}

// GetRule returns the last rule whose selector list contains sel.
func (ss *Stylesheet) GetRule(sel Selector) (*Rule, bool) {
	var found *Rule

	for r := range ss.Rules() {
		for _, s := range r.Selectors {
			if s == sel {
				found = r
			}
		}
	}

	return found, found != nil
}

// Set appends a property declaration to the rule.
func (r *Rule) Set(name string, value Value) *Rule {
	r.Properties = append(r.Properties, Property{Name: name, Value: value})

	return r
}

// Get returns the value of the last declaration of the named property.
func (r *Rule) Get(name string) (Value, bool) {
	for i := len(r.Properties) - 1; i >= 0; i-- {
		if r.Properties[i].Name == name {
			return r.Properties[i].Value, true
		}
	}

	return Value{}, false
}
