package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/profile"
)

const defaultConfigIndent = 2

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err := os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	err = os.MkdirAll(filepath.Dir(confPath), 0o750)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	err = configSheet(ktx).Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	_, err = fmt.Fprintln(outputFrom(ctx), confPath)

	return err
}

// configSheet returns a stylesheet with one rule, selected by
// [ConfigIdentifier], declaring a property per flag.
func configSheet(ktx *kong.Context) *lang.Stylesheet {
	ss := new(lang.Stylesheet)
	rule := ss.DefineRule(lang.Selector{Widget: ConfigIdentifier})

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := flagValue(ktx.FlagValue(flag)); ok {
			rule.Set(flag.Name, v)
		}
	}

	return ss
}

// flagValue converts a flag value to a stylesheet value. Booleans become the
// keywords true and false. Numbers and strings become quoted text, so the
// configuration resolver can hand them back to kong verbatim.
func flagValue(val any) (lang.Value, bool) {
	switch v := val.(type) {
	case nil:
		return lang.Value{}, false

	case bool:
		if v {
			return lang.NewKeyword("true"), true
		}

		return lang.NewKeyword("false"), true

	case []string:
		if len(v) == 0 {
			return lang.Value{}, false
		}

		items := make([]lang.Value, len(v))
		for i, s := range v {
			items[i] = lang.NewText(s)
		}

		return lang.NewList(items...), true

	case fmt.Stringer:
		return flagValue(v.String())

	case string:
		if v == "" {
			return lang.Value{}, false
		}

		return lang.NewText(v), true

	default:
		return lang.NewText(fmt.Sprint(v)), true
	}
}
