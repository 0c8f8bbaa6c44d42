package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/theme"
)

// Eval evaluates an expression against the resolved theme.
//
// The expression environment provides:
//
//	resolve(widget, property[, state[, instance]]) string
//	color(widget, property[, state[, instance]])   string
//	px(widget, property[, state[, instance]])      float
//	variable(name)                                 string
//	widgets()                                      []string
//	states()                                       []string
//	properties(widget[, state[, instance]])        []string
//	contrast(color, color)                         float
//	variables                                      map[string]any
type Eval struct {
	Expr string `arg:"" help:"Expression to evaluate." name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	tree, err := themesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	env := evalEnv(tree)

	program, err := expr.Compile(e.Expr, expr.Env(env))
	if err != nil {
		return ErrEval.Wrap(err).With(slog.String("expr", e.Expr))
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return ErrEval.Wrap(err).With(slog.String("expr", e.Expr))
	}

	out := outputFrom(ctx)

	if s, ok := result.(string); ok {
		_, err = fmt.Fprintln(out, s)

		return err
	}

	b, err := json.Marshal(result)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(out, string(b))

	return err
}

// evalQuery builds a query from a widget name followed by an optional state
// and instance.
func evalQuery(widget string, rest []string) theme.Query {
	q := theme.Query{Widget: widget}

	if len(rest) > 0 {
		q.State = rest[0]
	}

	if len(rest) > 1 {
		q.Instance = rest[1]
	}

	return q
}

func evalEnv(tree *theme.Tree) map[string]any {
	lookup := func(widget, prop string, rest []string) (lang.Value, error) {
		q := evalQuery(widget, rest)

		v, ok := tree.Lookup(q, prop)
		if !ok {
			return lang.Value{}, ErrNoMatch.Wrap(
				fmt.Errorf("%s has no %s", q, prop))
		}

		return v, nil
	}

	return map[string]any{
		"resolve": func(widget, prop string, rest ...string) (string, error) {
			v, err := lookup(widget, prop, rest)
			if err != nil {
				return "", err
			}

			return v.String(), nil
		},

		"color": func(widget, prop string, rest ...string) (string, error) {
			v, err := lookup(widget, prop, rest)
			if err != nil {
				return "", err
			}

			c, ok := v.AsColor()
			if !ok {
				return "", fmt.Errorf("%s is a %s, not a color", prop, v.Kind)
			}

			return c.Hex(), nil
		},

		"px": func(widget, prop string, rest ...string) (float64, error) {
			v, err := lookup(widget, prop, rest)
			if err != nil {
				return 0, err
			}

			d, ok := v.AsDistance()
			if !ok {
				return 0, fmt.Errorf("%s is a %s, not a distance", prop, v.Kind)
			}

			q := evalQuery(widget, rest)
			font := tree.Distance(q, "font-size", lang.Px(0))

			return d.Pixels(lang.ResolutionContext{
				FontSize: font.Pixels(lang.ResolutionContext{}),
			}), nil
		},

		"variable": func(name string) (string, error) {
			v, ok := tree.Variable(name)
			if !ok {
				return "", theme.ErrVariableNotFound.With(slog.String("name", name))
			}

			return v.String(), nil
		},

		"widgets": tree.Widgets,
		"states":  tree.States,

		"properties": func(widget string, rest ...string) []string {
			return tree.Properties(evalQuery(widget, rest))
		},

		"contrast": func(a, b string) (float64, error) {
			ca, err := lang.ParseColor(a)
			if err != nil {
				return 0, err
			}

			cb, err := lang.ParseColor(b)
			if err != nil {
				return 0, err
			}

			return ca.Contrast(cb), nil
		},

		"variables": tree.Native()["variables"],
	}
}
