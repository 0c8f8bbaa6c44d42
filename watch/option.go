package watch

import (
	"time"

	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
)

// DefaultDebounce is the quiet period after the last file event before a
// rebuild starts.
const DefaultDebounce = 100 * time.Millisecond

// Option configures a [Watcher].
type Option func(*config)

type config struct {
	debounce time.Duration
	onError  func(error)
	logger   log.Logger
	theme    []theme.Option
}

func makeConfig(opts ...Option) config {
	c := config{debounce: DefaultDebounce}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithDebounce sets the debounce window. Non-positive values select
// [DefaultDebounce].
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		if d <= 0 {
			d = DefaultDebounce
		}

		c.debounce = d
	}
}

// WithErrorHandler sets a function called with every failed reload and every
// error reported by the file system watcher. Reload failures are reported
// from the goroutine performing the reload, which is the caller of
// [Watcher.Reload] or the worker started by [Watcher.Run]; watcher errors
// are reported from the goroutine running [Watcher.Run]. A reload overtaken
// by a newer change is not reported.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithLogger sets the logger used for reload diagnostics. It is also passed
// to the theme loader.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithThemeOptions passes options through to [theme.Compile].
func WithThemeOptions(opts ...theme.Option) Option {
	return func(c *config) {
		c.theme = append(c.theme, opts...)
	}
}
