package theme

import (
	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
)

// MaxVariableDepth is the longest chain of variable references resolved
// before the chain is reported as cyclic.
const MaxVariableDepth = 16

// Option configures loading and building.
type Option func(*config)

type config struct {
	builtin bool
	cache   bool
	logger  log.Logger
	parse   []lang.Option
	files   []string // source names, set by Compile
}

func makeConfig(opts ...Option) config {
	c := config{builtin: true, cache: true}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// parseOptions returns the lang options implied by c.
func (c config) parseOptions() []lang.Option {
	return append([]lang.Option{lang.WithLogger(c.logger)}, c.parse...)
}

// WithBuiltin controls whether [Load] and [Compile] place the embedded
// default stylesheet beneath the given sources. It is enabled by default.
func WithBuiltin(enabled bool) Option {
	return func(c *config) {
		c.builtin = enabled
	}
}

// WithCache controls whether sources are parsed through the process-wide
// parse cache. It is enabled by default. Long-running callers that compile
// many distinct revisions of the same files should disable it; the embedded
// default stylesheet is always cached.
func WithCache(enabled bool) Option {
	return func(c *config) {
		c.cache = enabled
	}
}

// WithLogger sets the logger used while loading and building.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithParseOptions passes options through to the parser.
func WithParseOptions(opts ...lang.Option) Option {
	return func(c *config) {
		c.parse = append(c.parse, opts...)
	}
}
