package cmd

import "context"

// Dump prints every resolved rule of the selected themes.
type Dump struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                     help:"Indent width."          short:"i"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	tree, err := themesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	if d.Format == "json" {
		err = tree.FormatJSON(ctx, out, d.Indent)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil
	}

	err = tree.FormatYAML(ctx, out, d.Indent)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}
