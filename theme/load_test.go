package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/rasi/lang"
)

func writeTheme(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(src), 0o600)
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	return path
}

func TestLoad_Builtin(t *testing.T) {
	tree, err := Load(t.Context(), nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		q    Query
		prop string
		want string
	}{
		{Query{Widget: "textbox"}, "background-color", "#000000"},
		{Query{Widget: "textbox"}, "text-color", "#ffffff"},
		{Query{Widget: "element", State: "selected"}, "text-color", "#000000"},
		{Query{Widget: "unknown"}, "font-size", "14px"},
	}

	for _, tt := range tests {
		v, ok := tree.Lookup(tt.q, tt.prop)
		if !ok {
			t.Errorf("Lookup(%v, %s) not found", tt.q, tt.prop)

			continue
		}

		if got := v.String(); got != tt.want {
			t.Errorf("Lookup(%v, %s) = %s, want %s", tt.q, tt.prop, got, tt.want)
		}
	}

	if got := tree.Children("window"); len(got) == 0 {
		t.Error("builtin window has no children")
	}
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	base := writeTheme(t, dir, "base.rasi", `
		@accent: #112233;
		textbox { text-color: @accent; border-color: @accent; }
	`)
	user := writeTheme(t, dir, "user.rasi", `
		@accent: #445566;
		textbox { border-color: #778899; }
	`)

	tree, err := Load(t.Context(), []string{base, user})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	q := Query{Widget: "textbox"}

	if got := tree.Color(q, "text-color", lang.Black).Hex(); got != "#445566" {
		t.Errorf("text-color = %s, want #445566", got)
	}

	if got := tree.Color(q, "border-color", lang.Black).Hex(); got != "#778899" {
		t.Errorf("border-color = %s, want #778899", got)
	}

	if got := tree.Color(q, "background-color", lang.White).Hex(); got != "#000000" {
		t.Errorf("background-color = %s, want builtin #000000", got)
	}

	// user variables override builtin ones too
	if got := tree.Color(Query{Widget: "element", State: "selected"}, "background-color", lang.Black).Hex(); got != "#445566" {
		t.Errorf("element selected = %s, want #445566", got)
	}
}

func TestLoad_WithoutBuiltin(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "a.rasi", `x { a: 1; }`)

	tree, err := Load(t.Context(), []string{path}, WithBuiltin(false))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, ok := tree.Lookup(Query{Widget: "textbox"}, "font-size"); ok {
		t.Error("builtin rules present with WithBuiltin(false)")
	}

	if got := len(tree.Variables()); got != 0 {
		t.Errorf("len(Variables()) = %d, want 0", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeTheme(t, dir, "bad.rasi", "textbox {\n  color: #ggg;\n}\n")
	cyclic := writeTheme(t, dir, "cyclic.rasi", "@a: @b;\n@b: @a;\n")
	good := writeTheme(t, dir, "good.rasi", "x {}")

	tests := []struct {
		name  string
		paths []string
		kinds []error
		text  string
	}{
		{
			name:  "missing file",
			paths: []string{good, filepath.Join(dir, "missing.rasi")},
			kinds: []error{ErrTheme, ErrReadFile, fs.ErrNotExist},
			text:  "missing.rasi",
		},
		{
			name:  "parse error",
			paths: []string{good, bad},
			kinds: []error{ErrTheme, lang.ErrParse, lang.ErrInvalidHexColor},
			text:  `load theme "` + bad + `": invalid hex color at 2:10`,
		},
		{
			name:  "cyclic variable",
			paths: []string{cyclic},
			kinds: []error{ErrTheme, ErrResolution, ErrCyclicVariable},
			text:  "cyclic variable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Load(t.Context(), tt.paths)
			if err == nil {
				t.Fatalf("Load() = %v, want error", tree)
			}

			for _, kind := range tt.kinds {
				if !errors.Is(err, kind) {
					t.Errorf("error %v is not %v", err, kind)
				}
			}

			if !strings.Contains(err.Error(), tt.text) {
				t.Errorf("error %q does not contain %q", err, tt.text)
			}
		})
	}
}

func TestLoad_ErrorSnippet(t *testing.T) {
	src := "textbox {\n  color: #ggg;\n}\n"

	_, err := Compile(t.Context(), []Source{{Name: "inline", Data: []byte(src)}})
	if err == nil {
		t.Fatal("Compile() succeeded")
	}

	pos, ok := lang.PositionOf(err)
	if !ok {
		t.Fatalf("error %v has no position", err)
	}

	want := "  2 |   color: #ggg;\n" + strings.Repeat(" ", 6+9) + "^\n"
	if got := lang.Snippet(src, pos); got != want {
		t.Errorf("Snippet() =\n%s\nwant\n%s", got, want)
	}
}

func TestReadSources_Order(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for _, name := range []string{"a", "b", "c", "d"} {
		paths = append(paths, writeTheme(t, dir, name+".rasi", name))
	}

	srcs, err := ReadSources(t.Context(), paths)
	if err != nil {
		t.Fatalf("ReadSources() error: %v", err)
	}

	for i, src := range srcs {
		if src.Name != paths[i] || string(src.Data) != filepath.Base(paths[i])[:1] {
			t.Errorf("srcs[%d] = %s %q", i, src.Name, src.Data)
		}
	}
}

func TestDefaultSource_Parses(t *testing.T) {
	ss, err := lang.Parse(t.Context(), []byte(DefaultSource()))
	if err != nil {
		t.Fatalf("builtin theme does not parse: %v", err)
	}

	if _, err := Build(t.Context(), []*lang.Stylesheet{ss}); err != nil {
		t.Fatalf("builtin theme does not build: %v", err)
	}
}

func TestLoad_ResolutionErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	base := writeTheme(t, dir, "base.rasi", "@accent: #112233;\n")
	user := writeTheme(t, dir, "user.rasi", "textbox {\n  c: @accnt;\n}\n")

	_, err := Load(t.Context(), []string{base, user}, WithBuiltin(false))
	if !errors.Is(err, ErrVariableNotFound) {
		t.Fatalf("Load() error = %v, want %v", err, ErrVariableNotFound)
	}

	want := `load theme "` + user + `": variable not found`
	if !strings.HasPrefix(err.Error(), want) {
		t.Errorf("error %q does not start with %q", err, want)
	}

	if !strings.Contains(err.Error(), `(did you mean "accent"?)`) {
		t.Errorf("error %q has no suggestion", err)
	}

	if pos, ok := lang.PositionOf(err); !ok || pos.Line != 2 {
		t.Errorf("PositionOf() = %v, %v; want line 2", pos, ok)
	}
}

func TestCompile_WithoutCache(t *testing.T) {
	lang.ClearCache()
	t.Cleanup(lang.ClearCache)

	for i := range 10 {
		src := Source{Name: "edit.rasi", Data: fmt.Appendf(nil, "x { n: %d; }", i)}

		if _, err := Compile(t.Context(), []Source{src}, WithCache(false)); err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
	}

	// only the builtin theme is cached
	if got := lang.CacheLen(); got != 1 {
		t.Errorf("CacheLen() = %d, want 1", got)
	}

	src := Source{Name: "edit.rasi", Data: []byte("x { n: 10; }")}
	if _, err := Compile(t.Context(), []Source{src}); err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if got := lang.CacheLen(); got != 2 {
		t.Errorf("CacheLen() = %d after a cached compile, want 2", got)
	}
}
