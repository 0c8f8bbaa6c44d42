package theme

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/lang/token"
)

// entry is one selector of one rule together with the rule's resolved
// declarations. Entries built from the same rule share props.
type entry struct {
	sel   lang.Selector
	score int
	order int
	props map[string]lang.Value
}

type bucketKey struct {
	widget string
	state  string
}

// Build merges sheets, in increasing precedence, into a Tree.
//
// Variable declarations from all sheets are merged by name (later wins) and
// every reference is substituted before any rule is indexed, so a returned
// Tree never contains a variable. Every declared variable is resolved, used
// or not.
func Build(ctx context.Context, sheets []*lang.Stylesheet, opts ...Option) (*Tree, error) {
	return build(ctx, sheets, makeConfig(opts...))
}

func build(ctx context.Context, sheets []*lang.Stylesheet, cfg config) (*Tree, error) {
	r := newResolver(sheets)
	r.files = cfg.files

	vars, err := r.resolveAll()
	if err != nil {
		cfg.logger.DebugContext(ctx, "variable resolution failed",
			slog.Any("error", err))

		return nil, err
	}

	t := &Tree{vars: vars, varNames: r.names}

	order := 0

	for i, ss := range sheets {
		if ss == nil {
			continue
		}

		for rule := range ss.Rules() {
			props := make(map[string]lang.Value, len(rule.Properties))

			for _, p := range rule.Properties {
				v, _, err := r.resolve(p.Value, i, nil)
				if err != nil {
					return nil, lang.WrapError(err).
						With(slog.String("property", p.Name))
				}

				props[p.Name] = v
			}

			for _, sel := range rule.Selectors {
				t.entries = append(t.entries, &entry{
					sel:   sel,
					score: sel.Specificity(),
					order: order,
					props: props,
				})

				order++
			}
		}
	}

	t.index()

	cfg.logger.DebugContext(ctx, "theme built",
		slog.Int("sheets", len(sheets)),
		slog.Int("entries", len(t.entries)),
		slog.Int("variables", len(t.vars)),
		slog.Int("widgets", len(t.widgets)),
		slog.Int("states", len(t.states)),
	)

	return t, nil
}

// index groups entries into one bucket per (widget, state) pair, including
// the empty widget and empty state, each sorted from highest to lowest
// precedence.
func (t *Tree) index() {
	for _, e := range t.entries {
		if e.sel.Widget != "" {
			t.widgets = append(t.widgets, e.sel.Widget)
		}

		if e.sel.State != "" {
			t.states = append(t.states, e.sel.State)
		}
	}

	slices.Sort(t.widgets)
	t.widgets = slices.Compact(t.widgets)
	slices.Sort(t.states)
	t.states = slices.Compact(t.states)

	widgets := append([]string{""}, t.widgets...)
	states := append([]string{""}, t.states...)

	t.buckets = make(map[bucketKey][]*entry, len(widgets)*len(states))

	for _, w := range widgets {
		for _, s := range states {
			var b []*entry

			for _, e := range t.entries {
				if (e.sel.Widget == "" || e.sel.Widget == w) &&
					(e.sel.State == "" || e.sel.State == s) {
					b = append(b, e)
				}
			}

			slices.SortFunc(b, func(x, y *entry) int {
				if c := cmp.Compare(y.score, x.score); c != 0 {
					return c
				}

				return cmp.Compare(y.order, x.order)
			})

			t.buckets[bucketKey{w, s}] = b
		}
	}
}

// resolver substitutes variable references, memoizing resolved variables.
//
// Values are resolved on behalf of a sheet index so that errors can name the
// file the failing reference was written in.
type resolver struct {
	raw   map[string]lang.Value
	decl  map[string]token.Position
	from  map[string]int // sheet index of the winning declaration
	names []string       // in order of first declaration
	done  map[string]lang.Value
	depth map[string]int // length of the longest chain starting at a done name
	files []string       // sheet names, if known
}

func newResolver(sheets []*lang.Stylesheet) *resolver {
	r := &resolver{
		raw:  make(map[string]lang.Value),
		decl: make(map[string]token.Position),
		from: make(map[string]int),
		done:  make(map[string]lang.Value),
		depth: make(map[string]int),
	}

	for i, ss := range sheets {
		if ss == nil {
			continue
		}

		for v := range ss.Variables() {
			if _, ok := r.raw[v.Name]; !ok {
				r.names = append(r.names, v.Name)
			}

			r.raw[v.Name] = v.Value
			r.decl[v.Name] = v.Pos
			r.from[v.Name] = i
		}
	}

	return r
}

func (r *resolver) resolveAll() (map[string]lang.Value, error) {
	for _, name := range r.names {
		_, _, err := r.variable(name, r.decl[name], r.from[name], nil)
		if err != nil {
			return nil, err
		}
	}

	return r.done, nil
}

// resolve substitutes the variables referenced by v. It also returns the
// length of the longest chain of variables v depends on.
func (r *resolver) resolve(v lang.Value, sheet int, chain []string) (lang.Value, int, error) {
	switch v.Kind {
	case lang.KindVariable:
		res, depth, err := r.variable(v.Text, v.Pos, sheet, chain)
		if err != nil {
			return lang.Value{}, 0, err
		}

		res.Pos = v.Pos

		return res, depth, nil

	case lang.KindList:
		if !v.HasVariables() {
			return v, 0, nil
		}

		list := make([]lang.Value, len(v.List))
		depth := 0

		for i, e := range v.List {
			var (
				d   int
				err error
			)

			list[i], d, err = r.resolve(e, sheet, chain)
			if err != nil {
				return lang.Value{}, 0, err
			}

			depth = max(depth, d)
		}

		out := lang.NewList(list...)
		out.Pos = v.Pos

		return out, depth, nil

	default:
		return v, 0, nil
	}
}

// variable resolves the named variable referenced at pos in the given sheet.
// chain holds the names currently being resolved, outermost first. The
// returned depth counts name and every variable it transitively refers to
// along the longest path.
//
// A memoized variable still counts its full depth toward the bound, so the
// outcome does not depend on the order variables were declared in.
func (r *resolver) variable(
	name string,
	pos token.Position,
	sheet int,
	chain []string,
) (lang.Value, int, error) {
	if v, ok := r.done[name]; ok {
		if len(chain)+r.depth[name] > MaxVariableDepth {
			return lang.Value{}, 0, r.cyclic(name, pos, sheet, chain)
		}

		return v, r.depth[name], nil
	}

	if slices.Contains(chain, name) || len(chain) >= MaxVariableDepth {
		return lang.Value{}, 0, r.cyclic(name, pos, sheet, chain)
	}

	raw, ok := r.raw[name]
	if !ok {
		err := ErrVariableNotFound.At(pos).With(slog.String("name", name))
		if s, ok := r.suggest(name); ok {
			err = err.With(slog.String("suggestion", s))
		}

		return lang.Value{}, 0, r.source(err, sheet)
	}

	v, depth, err := r.resolve(raw, r.from[name], slices.Concat(chain, []string{name}))
	if err != nil {
		return lang.Value{}, 0, err
	}

	r.done[name] = v
	r.depth[name] = depth + 1

	return v, depth + 1, nil
}

func (r *resolver) cyclic(name string, pos token.Position, sheet int, chain []string) *lang.Error {
	return r.source(ErrCyclicVariable.At(pos).With(
		slog.String("name", name),
		slog.String("chain", strings.Join(append(slices.Clone(chain), name), " → ")),
	), sheet)
}

// source attaches the name of the given sheet to err, if known.
func (r *resolver) source(err *lang.Error, sheet int) *lang.Error {
	if sheet < 0 || sheet >= len(r.files) {
		return err
	}

	return err.With(slog.String("source", r.files[sheet]))
}

// suggest returns the declared variable name that best matches name.
func (r *resolver) suggest(name string) (string, bool) {
	return suggest(name, r.names)
}

// suggest returns the candidate that best fuzzy-matches name in either
// direction, preferring the higher score.
func suggest(name string, candidates []string) (string, bool) {
	if len(candidates) == 0 || name == "" {
		return "", false
	}

	if m := fuzzy.Find(name, candidates); len(m) > 0 {
		return m[0].Str, true
	}

	best, bestScore := "", 0

	for _, c := range candidates {
		if m := fuzzy.Find(c, []string{name}); len(m) > 0 {
			if best == "" || m[0].Score > bestScore {
				best, bestScore = c, m[0].Score
			}
		}
	}

	return best, best != ""
}
