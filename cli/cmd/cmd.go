package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
)

type (
	contextKey struct{}
	themesKey  struct{}
	outputKey  struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// Themes selects the theme files a command operates on.
type Themes struct {
	// Paths lists theme files in increasing precedence.
	Paths []string
	// Builtin merges the embedded default theme beneath Paths.
	Builtin bool
}

// WithThemes returns a new context.Context carrying the theme selection.
// Paths naming the same file (through symlinks or relative forms) are
// collapsed to the last mention, which has the highest precedence.
func WithThemes(ctx context.Context, th Themes) context.Context {
	th.Paths = uniquePaths(th.Paths)

	return context.WithValue(ctx, themesKey{}, th)
}

func themesFrom(ctx context.Context) Themes {
	th, ok := ctx.Value(themesKey{}).(Themes)
	if !ok {
		return Themes{Builtin: true}
	}

	return th
}

// Options returns the theme options implied by th.
func (th Themes) Options() []theme.Option {
	return []theme.Option{
		theme.WithBuiltin(th.Builtin),
		theme.WithLogger(log.Default()),
	}
}

// Load reads and compiles the selected themes.
func (th Themes) Load(ctx context.Context) (*theme.Tree, error) {
	return theme.Load(ctx, th.Paths, th.Options()...)
}

// WithOutput returns a new context.Context whose commands write results to w
// instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the source argument that selects standard input.
const stdinSource = "-"

// openSource opens the named file, or standard input for "-".
func openSource(name string) (io.ReadCloser, error) {
	if name == stdinSource || name == "" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(name)
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// uniquePaths removes paths that refer to the same file as a later path.
// Paths that cannot be inspected are kept so loading reports them.
func uniquePaths(paths []string) []string {
	seen := make(map[fileKey]struct{}, len(paths))
	out := make([]string, 0, len(paths))

	for _, path := range slices.Backward(paths) {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			out = append(out, path)

			continue
		}

		info, err := os.Stat(resolved)
		if err != nil {
			out = append(out, path)

			continue
		}

		key, ok := makeFileKey(info)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	slices.Reverse(out)

	return out
}
