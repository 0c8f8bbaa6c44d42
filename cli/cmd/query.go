package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/rasi/theme"
)

// Query prints the value a widget resolves for a property.
type Query struct {
	Widget   string `arg:"" help:"Widget type name."`
	Property string `arg:"" help:"Property name."`

	Instance string `help:"Widget instance name."                       short:"i"`
	State    string `help:"Widget state, such as selected."              short:"s"`
	Default  string `help:"Value printed when the property is not set." short:"d"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) error {
	tree, err := themesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	query := theme.Query{Widget: q.Widget, Instance: q.Instance, State: q.State}

	text, err := q.lookup(tree, query)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(outputFrom(ctx), text)

	return err
}

func (q *Query) lookup(tree *theme.Tree, query theme.Query) (string, error) {
	if v, ok := tree.Lookup(query, q.Property); ok {
		return v.String(), nil
	}

	if q.Default != "" {
		return q.Default, nil
	}

	err := ErrNoMatch.With(
		slog.String("query", query.String()),
		slog.String("property", q.Property),
	)

	// Blame the widget name if the theme never mentions it.
	if !slices.Contains(tree.Widgets(), q.Widget) {
		if s, ok := tree.Suggest(q.Widget, nil); ok && s != q.Widget {
			return "", err.Wrap(fmt.Errorf(
				"%s has no %s (did you mean widget %q?)", query, q.Property, s))
		}
	}

	if s, ok := tree.Suggest(q.Property, &query); ok {
		return "", err.Wrap(fmt.Errorf(
			"%s has no %s (did you mean %q?)", query, q.Property, s))
	}

	return "", err.Wrap(fmt.Errorf("%s has no %s", query, q.Property))
}
