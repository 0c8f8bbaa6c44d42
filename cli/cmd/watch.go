package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
	"github.com/ardnew/rasi/watch"
)

// Watch reloads the selected themes whenever they change and reports each
// published generation.
type Watch struct {
	Debounce time.Duration `default:"100ms" help:"Quiet period before a reload." short:"d"`
}

// Run executes the watch command.
func (w *Watch) Run(ctx context.Context) error {
	th := themesFrom(ctx)
	if len(th.Paths) == 0 {
		return ErrNoThemes
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.New(ctx, th.Paths,
		watch.WithDebounce(w.Debounce),
		watch.WithLogger(log.Default().With(slog.String("component", "watch"))),
		watch.WithThemeOptions(theme.WithBuiltin(th.Builtin)),
	)
	if err != nil {
		return err
	}

	events, cancel := watcher.Subscribe()
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- watcher.Run(ctx) }()

	out := outputFrom(ctx)
	report(out, watcher.Generation(), watcher.Snapshot())

	for {
		select {
		case err := <-done:
			return err

		case ev := <-events:
			report(out, ev.Generation, watcher.Snapshot())
		}
	}
}

func report(w io.Writer, gen uint64, tree *theme.Tree) {
	fmt.Fprintf(w, "generation %d: %d widgets, %d variables\n",
		gen, len(tree.Widgets()), len(tree.VariableNames()))
}
