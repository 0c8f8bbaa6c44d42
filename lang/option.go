package lang

import (
	"slices"

	"github.com/ardnew/rasi/log"
)

// DefaultStates lists the state keywords recognized in the two-identifier
// selector form "widget state".
var DefaultStates = []string{
	"normal",
	"selected",
	"active",
	"urgent",
	"alternate",
	"focused",
	"hover",
	"pressed",
	"disabled",
	"checked",
}

// Option configures parsing.
type Option func(*config)

// optionsKey holds the options that affect parse results. It is hashed into
// the parse cache key.
type optionsKey struct {
	States []string
}

type config struct {
	key    optionsKey
	logger log.Logger // outside optionsKey, doesn't affect cache
}

func makeConfig(opts ...Option) config {
	var c config

	c.key.States = slices.Clone(DefaultStates)

	for _, opt := range opts {
		opt(&c)
	}

	slices.Sort(c.key.States)
	c.key.States = slices.Compact(c.key.States)

	return c
}

func (c config) isState(s string) bool {
	_, found := slices.BinarySearch(c.key.States, s)

	return found
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStates adds state keywords recognized in the "widget state" selector
// form.
func WithStates(states ...string) Option {
	return func(c *config) {
		c.key.States = append(c.key.States, states...)
	}
}
