package theme

import (
	"context"
	_ "embed"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/rasi/lang"
)

//go:embed default.rasi
var defaultSource string

// BuiltinName is the source name reported for the embedded default theme.
const BuiltinName = "<builtin>"

// DefaultSource returns the text of the embedded default theme.
func DefaultSource() string { return defaultSource }

// Source is the named text of one stylesheet.
type Source struct {
	Name string
	Data []byte
}

// ReadSources reads the files at paths concurrently. The result keeps the
// order of paths.
func ReadSources(ctx context.Context, paths []string) ([]Source, error) {
	out := make([]Source, len(paths))

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return ErrReadFile.Wrap(err).With(slog.String("file", path))
			}

			out[i] = Source{Name: path, Data: data}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Compile parses sources, in increasing precedence, and builds a Tree. The
// embedded default theme sits beneath them unless disabled with
// [WithBuiltin].
//
// Failures are reported as [ErrTheme] wrapping the underlying lexical, parse
// or resolution error.
func Compile(ctx context.Context, sources []Source, opts ...Option) (*Tree, error) {
	cfg := makeConfig(opts...)
	parseOpts := cfg.parseOptions()

	if cfg.builtin {
		sources = append([]Source{{Name: BuiltinName, Data: []byte(defaultSource)}}, sources...)
	}

	sheets := make([]*lang.Stylesheet, len(sources))

	for i, src := range sources {
		parse := lang.Parse
		if cfg.cache || (cfg.builtin && i == 0) {
			parse = parseCached
		}

		ss, err := parse(ctx, src.Data, parseOpts...)
		if err != nil {
			return nil, ErrTheme.With(slog.String("file", src.Name)).Wrap(err)
		}

		sheets[i] = ss
	}

	cfg.files = make([]string, len(sources))
	for i, src := range sources {
		cfg.files[i] = src.Name
	}

	t, err := build(ctx, sheets, cfg)
	if err != nil {
		e := ErrTheme
		if file, ok := lang.WrapError(err).Attr("source"); ok {
			e = e.With(slog.String("file", file.String()))
		}

		return nil, e.Wrap(err)
	}

	return t, nil
}

func parseCached(ctx context.Context, src []byte, opts ...lang.Option) (*lang.Stylesheet, error) {
	return lang.ParseString(ctx, string(src), opts...)
}

// Load reads the theme files at paths, in increasing precedence, and builds
// a Tree. See [Compile].
func Load(ctx context.Context, paths []string, opts ...Option) (*Tree, error) {
	cfg := makeConfig(opts...)

	sources, err := ReadSources(ctx, paths)
	if err != nil {
		cfg.logger.DebugContext(ctx, "read failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "read sources", slog.Any("files", paths))

	return Compile(ctx, sources, opts...)
}
