package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/rasi/lang/token"
)

// ignorePos compares syntax trees without regard to source positions.
var ignorePos = cmpopts.IgnoreTypes(token.Position{})

func rule(props []Property, sels ...Selector) Entry {
	return Entry{Rule: &Rule{Selectors: sels, Properties: props}}
}

func prop(name string, v Value) Property {
	return Property{Name: name, Value: v}
}

func TestParse_Stylesheet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			name:  "empty",
			input: "  // nothing\n",
			want:  nil,
		},
		{
			name:  "variable declaration",
			input: `@accent: #112233;`,
			want: []Entry{{Variable: &VariableDecl{
				Name:  "accent",
				Value: NewColor(MustParseColor("#112233")),
			}}},
		},
		{
			name:  "state keyword",
			input: `textbox selected { background-color: #ffffffff; }`,
			want: []Entry{rule(
				[]Property{prop("background-color", NewColor(White))},
				Selector{Widget: "textbox", State: "selected"},
			)},
		},
		{
			name:  "instance name",
			input: `textbox search { text-color: red }`,
			want: []Entry{rule(
				[]Property{prop("text-color", NewKeyword("red"))},
				Selector{Widget: "textbox", Instance: "search"},
			)},
		},
		{
			name:  "instance name then state",
			input: `textbox search.focused {}`,
			want: []Entry{rule(nil,
				Selector{Widget: "textbox", Instance: "search", State: "focused"},
			)},
		},
		{
			name:  "selector list",
			input: `textbox#search.focused, *, #ok hover, * urgent {}`,
			want: []Entry{rule(nil,
				Selector{Widget: "textbox", Instance: "search", State: "focused"},
				Selector{},
				Selector{Instance: "ok", State: "hover"},
				Selector{State: "urgent"},
			)},
		},
		{
			name:  "dot state not in keyword set",
			input: `button.blinking {}`,
			want: []Entry{rule(nil,
				Selector{Widget: "button", State: "blinking"},
			)},
		},
		{
			name: "value forms",
			input: `window {
				padding: 4px 8px;
				margin: 1 2em 3% 4mm;
				width: 50%;
				children: [ "inputbar", listview, ];
				icon: url("logo.png", both);
				color: rgba(255, 0, 0, 50%);
				border-color: rgb(100%, 0, 255);
				enabled: true;
				label: "hi";
				fg: @foreground;
			}`,
			want: []Entry{rule(
				[]Property{
					prop("padding", NewRect(Symmetric(Px(4), Px(8)))),
					prop("margin", NewRect(Rect{Px(1), Ems(2), Pct(3), Mm(4)})),
					prop("width", NewDistance(Pct(50))),
					prop("children", NewList(NewText("inputbar"), NewKeyword("listview"))),
					prop("icon", NewImage(Image{Path: "logo.png", Scale: ScaleBoth})),
					prop("color", NewColor(RGBA(1, 0, 0, 0.5))),
					prop("border-color", NewColor(RGBA(1, 0, 1, 1))),
					prop("enabled", NewKeyword("true")),
					prop("label", NewText("hi")),
					prop("fg", NewVariable("foreground")),
				},
				Selector{Widget: "window"},
			)},
		},
		{
			name:  "entries keep order",
			input: `@a: 1; x { p: @a } @b: [@a, 2];`,
			want: []Entry{
				{Variable: &VariableDecl{Name: "a", Value: NewDistance(Px(1))}},
				rule([]Property{prop("p", NewVariable("a"))}, Selector{Widget: "x"}),
				{Variable: &VariableDecl{
					Name:  "b",
					Value: NewList(NewVariable("a"), NewDistance(Px(2))),
				}},
			},
		},
		{
			name:  "empty list and url without scale",
			input: `x { a: []; b: url("p") }`,
			want: []Entry{rule(
				[]Property{
					prop("a", NewList()),
					prop("b", NewImage(Image{Path: "p"})),
				},
				Selector{Widget: "x"},
			)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, err := Parse(t.Context(), []byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}

			if diff := cmp.Diff(tt.want, ss.Entries, ignorePos); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
		line  int
		col   int
	}{
		{"invalid hex color", `textbox { color: #ggg; }`, ErrInvalidHexColor, 1, 18},
		{"hex color length", `textbox { color: #12345; }`, ErrInvalidHexColor, 1, 18},
		{"unknown unit", `textbox { width: 10pt; }`, ErrUnknownUnit, 1, 18},
		{"unknown unit in rgb", `x { c: rgb(1px, 0, 0) }`, ErrUnknownUnit, 1, 12},
		{"missing close brace", "textbox { color: red", ErrUnexpected, 1, 21},
		{"missing open brace", `textbox color: red; }`, ErrUnexpected, 1, 14},
		{"variable without semicolon", "@a: 1", ErrUnexpected, 1, 6},
		{"three distances", `x { padding: 1px 2px 3px; }`, ErrUnexpected, 1, 25},
		{"five distances", `x { padding: 1 2 3 4 5; }`, ErrUnexpected, 1, 22},
		{"text sequence", `x { label: "a" "b"; }`, ErrUnexpected, 1, 16},
		{"two instance names", `#ok cancel {}`, ErrUnexpected, 1, 5},
		{"missing property separator", `x { a: 1 b: 2 }`, ErrUnexpected, 1, 10},
		{"rgb arity", `x { c: rgb(1, 2) }`, ErrUnexpected, 1, 16},
		{"url scale", `x { i: url("p", sideways) }`, ErrUnexpected, 1, 17},
		{"url path", `x { i: url(p) }`, ErrUnexpected, 1, 12},
		{"empty selector", `{ a: 1 }`, ErrUnexpected, 1, 1},
		{"lexical error", `x { a: ^ }`, ErrInvalidCharacter, 1, 8},
		{"unterminated string", "x { a: \"b }", ErrUnterminatedString, 1, 8},
		{"unterminated comment", "x { a: 1; }\n/* unterminated", ErrUnterminatedComment, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, err := Parse(t.Context(), []byte(tt.input))
			if err == nil {
				t.Fatalf("expected error, got stylesheet %+v", ss)
			}

			if ss != nil {
				t.Errorf("expected nil stylesheet on error")
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error %v is not %v", err, tt.kind)
			}

			pos, ok := PositionOf(err)
			if !ok {
				t.Fatalf("error %v has no position", err)
			}

			if pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("position = %d:%d, want %d:%d",
					pos.Line, pos.Column, tt.line, tt.col)
			}
		})
	}
}

func TestParse_UnexpectedDetails(t *testing.T) {
	_, err := Parse(t.Context(), []byte("@a: 1 }"))

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}

	if diff := cmp.Diff([]string{`";"`}, e.Expected()); diff != "" {
		t.Errorf("expected set mismatch (-want +got):\n%s", diff)
	}

	found, ok := e.Attr("found")
	if !ok || found.String() != "}" {
		t.Errorf("found = %v, %v; want \"}\"", found, ok)
	}

	want := `unexpected token at 1:7 "}" (expected ";")`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParse_WithStates(t *testing.T) {
	input := []byte(`button pulsing {}`)

	ss, err := Parse(t.Context(), input)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := ss.Entries[0].Rule.Selectors[0]; got.Instance != "pulsing" {
		t.Errorf("default states: selector = %+v, want instance", got)
	}

	ss, err = Parse(t.Context(), input, WithStates("pulsing"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := ss.Entries[0].Rule.Selectors[0]; got.State != "pulsing" {
		t.Errorf("custom states: selector = %+v, want state", got)
	}
}

func TestParseTokens_MatchesParse(t *testing.T) {
	src := []byte(`@x: 2em; a b, c.hover { p: @x; q: [1, "s"] }`)

	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	fromTokens, err := ParseTokens(toks)
	if err != nil {
		t.Fatalf("ParseTokens() error: %v", err)
	}

	fromSource, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if diff := cmp.Diff(fromSource, fromTokens); diff != "" {
		t.Errorf("ParseTokens mismatch (-Parse +ParseTokens):\n%s", diff)
	}
}

func TestParseTokens_MissingEOF(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Ident, Text: "x", Pos: token.Position{Line: 1, Column: 1}},
		{Kind: token.LBrace, Pos: token.Position{Offset: 2, Line: 1, Column: 3}},
		{Kind: token.RBrace, Pos: token.Position{Offset: 3, Line: 1, Column: 4}},
	}

	ss, err := ParseTokens(toks)
	if err != nil {
		t.Fatalf("ParseTokens() error: %v", err)
	}

	if n := len(ss.Entries); n != 1 {
		t.Errorf("len(Entries) = %d, want 1", n)
	}
}

func TestStylesheet_Builders(t *testing.T) {
	var ss Stylesheet

	ss.DefineVariable("accent", NewColor(Black))
	ss.DefineRule(Selector{Widget: "textbox"}).
		Set("text-color", NewVariable("accent")).
		Set("text-color", NewKeyword("white"))

	r, ok := ss.GetRule(Selector{Widget: "textbox"})
	if !ok {
		t.Fatal("GetRule() did not find textbox")
	}

	v, ok := r.Get("text-color")
	if !ok || !v.Equal(NewKeyword("white")) {
		t.Errorf("Get() = %v, %v; want last declaration", v, ok)
	}

	if _, ok := ss.GetRule(Selector{Widget: "listview"}); ok {
		t.Error("GetRule() found a rule for listview")
	}

	var names []string
	for v := range ss.Variables() {
		names = append(names, v.Name)
	}

	if diff := cmp.Diff([]string{"accent"}, names); diff != "" {
		t.Errorf("Variables() mismatch (-want +got):\n%s", diff)
	}
}

func TestSelector_Specificity(t *testing.T) {
	tests := []struct {
		sel  Selector
		want int
		str  string
	}{
		{Selector{}, 0, "*"},
		{Selector{Widget: "textbox"}, 1, "textbox"},
		{Selector{State: "selected"}, 2, "*.selected"},
		{Selector{Widget: "textbox", State: "selected"}, 3, "textbox.selected"},
		{Selector{Instance: "ok"}, 4, "#ok"},
		{Selector{Widget: "button", Instance: "ok"}, 5, "button#ok"},
		{Selector{Widget: "button", Instance: "ok", State: "hover"}, 7, "button#ok.hover"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.sel.Specificity(); got != tt.want {
				t.Errorf("Specificity() = %d, want %d", got, tt.want)
			}

			if got := tt.sel.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestSelector_Matches(t *testing.T) {
	sel := Selector{Widget: "button", State: "hover"}

	if !sel.Matches("button", "ok", "hover") {
		t.Error("expected match with any instance")
	}

	if sel.Matches("button", "", "") {
		t.Error("stateful selector matched stateless query")
	}

	if sel.Matches("textbox", "", "hover") {
		t.Error("selector matched other widget")
	}

	if !(Selector{}).Matches("anything", "x", "y") {
		t.Error("universal selector did not match")
	}
}
