package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardnew/rasi/cli/cmd/preview"
	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
	"github.com/ardnew/rasi/watch"
)

// Preview shows the selected themes interactively and follows their edits.
type Preview struct {
	Debounce time.Duration `default:"100ms" help:"Quiet period before a reload." short:"d"`
}

// Run executes the preview command.
func (p *Preview) Run(ctx context.Context) error {
	th := themesFrom(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Log output would tear the full-screen view, so failures are shown in
	// the preview instead.
	logger := log.Default().With(slog.String("component", "preview"))
	failures := make(chan error, 1)

	watcher, err := watch.New(ctx, th.Paths,
		watch.WithDebounce(p.Debounce),
		watch.WithErrorHandler(func(err error) {
			select {
			case failures <- err:
			default:
			}
		}),
		watch.WithThemeOptions(theme.WithBuiltin(th.Builtin)),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- watcher.Run(ctx) }()

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	err = preview.Run(ctx, watcher, failures, cacheDir, logger)

	cancel()

	if werr := <-done; err == nil {
		err = werr
	}

	return err
}
