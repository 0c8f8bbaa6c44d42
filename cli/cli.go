package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rasi/cli/cmd"
	"github.com/ardnew/rasi/pkg"
)

// CLI is the top-level command-line interface for rasi.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Theme   []string         `help:"Theme file(s), in increasing precedence."          short:"t" type:"existingfile"`
	Builtin bool             `default:"true" help:"Merge the builtin theme beneath the theme files." negatable:""`
	Version kong.VersionFlag `help:"Print version and exit."                           short:"V"`

	Check   cmd.Check   `cmd:"" default:"1" help:"Load the themes and report the first error."`
	Query   cmd.Query   `cmd:""             help:"Print the value a widget resolves for a property."`
	Dump    cmd.Dump    `cmd:""             help:"Print every resolved rule."`
	Eval    cmd.Eval    `cmd:""             help:"Evaluate an expression against the resolved theme."`
	Fmt     cmd.Fmt     `cmd:""             help:"Reformat a stylesheet."`
	Watch   cmd.Watch   `cmd:""             help:"Reload the themes whenever they change."`
	Preview cmd.Preview `cmd:""             help:"Preview the themes interactively."`
	Init    cmd.Init    `cmd:""             help:"Write a configuration file with the current flags."`
}

// Run executes the rasi CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		// Later loaders take precedence over earlier ones.
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolveYAML(ctx), configFilePath+".yaml"),
		kong.Configuration(resolve(ctx, cmd.ConfigIdentifier), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithThemes(ctx, cmd.Themes{Paths: cli.Theme, Builtin: cli.Builtin})

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
