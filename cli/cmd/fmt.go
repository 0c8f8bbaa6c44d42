package cmd

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
)

// Fmt reads one stylesheet and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical rasi syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Print the syntax tree."`
}

// parseSource parses the named file, or standard input for "-".
func parseSource(ctx context.Context, name, format string) (*lang.Stylesheet, error) {
	r, err := openSource(name)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("file", name))
	}
	defer r.Close()

	ss, err := lang.ParseReader(ctx, bufio.NewReader(r), lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("file", name),
			slog.String("format", format),
		)
	}

	return ss, nil
}

// Native formats input as canonical rasi syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width; 0 writes one line per rule." short:"i"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	ss, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return ss.Format(ctx, outputFrom(ctx), f.Indent)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 writes compact JSON." short:"i"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	ss, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	err = ss.FormatJSON(ctx, outputFrom(ctx), j.Indent)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width; 0 writes flow style." short:"i"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	ss, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	err = ss.FormatYAML(ctx, outputFrom(ctx), y.Indent)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST prints the syntax tree of the input.
type AST struct {
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) error {
	ss, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return ss.Print(outputFrom(ctx))
}
