package lang

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the stylesheet in native syntax. Entries keep their source
// order. With indent 0 each entry is written on a single line.
func (ss *Stylesheet) Format(_ context.Context, w io.Writer, indent int) error {
	bw := bufio.NewWriter(w)

	for i, e := range ss.Entries {
		if i > 0 && indent > 0 && (e.Rule != nil || ss.Entries[i-1].Rule != nil) {
			bw.WriteByte('\n')
		}

		switch {
		case e.Variable != nil:
			fmt.Fprintf(bw, "@%s: %s;\n", e.Variable.Name, e.Variable.Value)

		case e.Rule != nil:
			formatRule(bw, e.Rule, indent)
		}
	}

	return bw.Flush()
}

func formatRule(w *bufio.Writer, r *Rule, indent int) {
	for i, sel := range r.Selectors {
		if i > 0 {
			w.WriteString(", ")
		}

		w.WriteString(sel.String())
	}

	if len(r.Properties) == 0 {
		w.WriteString(" {}\n")

		return
	}

	if indent == 0 {
		w.WriteString(" {")

		for i, p := range r.Properties {
			if i > 0 {
				w.WriteByte(';')
			}

			fmt.Fprintf(w, " %s: %s", p.Name, p.Value)
		}

		w.WriteString(" }\n")

		return
	}

	pad := strings.Repeat(" ", indent)

	w.WriteString(" {\n")

	for _, p := range r.Properties {
		fmt.Fprintf(w, "%s%s: %s;\n", pad, p.Name, p.Value)
	}

	w.WriteString("}\n")
}

// Native converts the stylesheet to plain maps and slices:
//
//	variables: {name: value, ...}
//	rules:     [{selectors: [...], properties: {name: value, ...}}, ...]
func (ss *Stylesheet) Native() map[string]any {
	vars := make(map[string]any)
	rules := make([]any, 0, len(ss.Entries))

	for v := range ss.Variables() {
		vars[v.Name] = v.Value.Native()
	}

	for r := range ss.Rules() {
		sels := make([]string, len(r.Selectors))
		for i, s := range r.Selectors {
			sels[i] = s.String()
		}

		props := make(map[string]any, len(r.Properties))
		for _, p := range r.Properties {
			props[p.Name] = p.Value.Native()
		}

		rules = append(rules, map[string]any{
			"selectors":  sels,
			"properties": props,
		})
	}

	return map[string]any{
		"variables": vars,
		"rules":     rules,
	}
}

// FormatJSON writes the stylesheet's native form as JSON.
func (ss *Stylesheet) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ss.Native(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ss.Native())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the stylesheet's native form as YAML.
func (ss *Stylesheet) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ss.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Print writes an indented dump of the syntax tree, one node per line, with
// source positions.
func (ss *Stylesheet) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Stylesheet (%d entries)\n", len(ss.Entries))

	for _, e := range ss.Entries {
		switch {
		case e.Variable != nil:
			fmt.Fprintf(bw, "  Variable @%s [%s]\n", e.Variable.Name, e.Variable.Pos)
			printValue(bw, e.Variable.Value, 2)

		case e.Rule != nil:
			fmt.Fprintf(bw, "  Rule [%s]\n", e.Rule.Pos)

			for _, s := range e.Rule.Selectors {
				fmt.Fprintf(bw, "    Selector %s (specificity %d)\n",
					s, s.Specificity())
			}

			for _, p := range e.Rule.Properties {
				fmt.Fprintf(bw, "    Property %s [%s]\n", p.Name, p.Pos)
				printValue(bw, p.Value, 3)
			}
		}
	}

	return bw.Flush()
}

func printValue(w *bufio.Writer, v Value, depth int) {
	pad := strings.Repeat("  ", depth)

	if v.Kind != KindList {
		fmt.Fprintf(w, "%s%s %s\n", pad, v.Kind, v)

		return
	}

	fmt.Fprintf(w, "%s%s (%d)\n", pad, v.Kind, len(v.List))

	for _, e := range v.List {
		printValue(w, e, depth+1)
	}
}
