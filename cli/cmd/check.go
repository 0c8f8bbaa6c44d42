package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
)

// Check loads the selected themes and reports the first problem found.
type Check struct{}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	th := themesFrom(ctx)
	out := outputFrom(ctx)

	sources, err := theme.ReadSources(ctx, th.Paths)
	if err != nil {
		return ErrCheck.Wrap(err)
	}

	tree, err := theme.Compile(ctx, sources, th.Options()...)
	if err != nil {
		diagnose(out, err, sources)

		return ErrCheck.Wrap(err)
	}

	log.DebugContext(ctx, "theme ok",
		slog.Int("files", len(sources)),
		slog.Int("widgets", len(tree.Widgets())),
		slog.Int("variables", len(tree.VariableNames())),
	)

	_, err = fmt.Fprintln(out, "ok")

	return err
}

// diagnose writes the location of err and the offending source line, if err
// carries a position in one of sources or in the builtin theme.
func diagnose(w io.Writer, err error, sources []theme.Source) {
	pos, ok := lang.PositionOf(err)
	if !ok {
		return
	}

	file, ok := fileOf(err)
	if !ok {
		return
	}

	text, ok := sourceText(file, sources)
	if !ok {
		return
	}

	fmt.Fprintf(w, "%s:%s: %v\n%s", file, pos, err, lang.Snippet(text, pos))
}

func fileOf(err error) (string, bool) {
	for err != nil {
		var e *lang.Error
		if !errors.As(err, &e) {
			break
		}

		if v, ok := e.Attr("file"); ok {
			return v.String(), true
		}

		err = e.Unwrap()
	}

	return "", false
}

func sourceText(file string, sources []theme.Source) (string, bool) {
	if file == theme.BuiltinName {
		return theme.DefaultSource(), true
	}

	for _, src := range sources {
		if src.Name == file {
			return string(src.Data), true
		}
	}

	return "", false
}
