package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testTheme = `@accent: #112233;
textbox {
  text-color: @accent;
  background-color: #ffffff;
  padding: 2px;
}
textbox selected { text-color: #445566; }
element { font-size: 10px; margin: 2em; }
`

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(src), 0o600)
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	return path
}

// testContext returns a context selecting the given theme files without the
// builtin theme, and a buffer capturing command output.
func testContext(t *testing.T, paths ...string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	ctx := WithThemes(t.Context(), Themes{Paths: paths})
	ctx = WithOutput(ctx, &out)

	return ctx, &out
}

func TestUniquePaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rasi", "")
	b := writeFile(t, dir, "b.rasi", "")

	link := filepath.Join(dir, "link.rasi")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("Symlink() error: %v", err)
	}

	missing := filepath.Join(dir, "missing.rasi")

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"distinct", []string{a, b}, []string{a, b}},
		{"repeat keeps last", []string{a, b, a}, []string{b, a}},
		{"symlink", []string{link, b, a}, []string{b, a}},
		{"missing kept", []string{missing, a, missing}, []string{missing, a, missing}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, uniquePaths(tt.in)); diff != "" {
				t.Errorf("uniquePaths() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestThemesFrom(t *testing.T) {
	if got := themesFrom(t.Context()); !got.Builtin || len(got.Paths) != 0 {
		t.Errorf("themesFrom(empty) = %+v, want builtin only", got)
	}

	ctx := WithThemes(t.Context(), Themes{Paths: []string{"x.rasi"}})
	if got := themesFrom(ctx); got.Builtin || len(got.Paths) != 1 {
		t.Errorf("themesFrom() = %+v", got)
	}
}

func TestOutputFrom(t *testing.T) {
	if got := outputFrom(t.Context()); got != os.Stdout {
		t.Errorf("outputFrom(empty) = %v, want stdout", got)
	}

	var buf bytes.Buffer
	if got := outputFrom(WithOutput(t.Context(), &buf)); got != &buf {
		t.Errorf("outputFrom() = %v, want buffer", got)
	}
}
