package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in the theme language. Flag values are the properties of the rule
// whose selector is the widget name:
//
//	config {
//	  theme: ["base.rasi", "user.rasi"];
//	  log-level: debug;
//	  log-pretty: false;
//	}
//
// Property names may use hyphens or underscores. Distances are read as their
// magnitude, so "indent: 4;" sets 4 rather than "4px". A file that does not
// parse is logged and ignored.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ss, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		rule, ok := ss.GetRule(lang.Selector{Widget: name})
		if !ok {
			return config{}, nil
		}

		conf := make(config, len(rule.Properties))

		for _, prop := range rule.Properties {
			if prop.Value.Kind == lang.KindDistance {
				conf[prop.Name] = strconv.FormatFloat(prop.Value.Distance.Magnitude, 'f', -1, 64)

				continue
			}

			if v, ok := flagText(prop.Value.Native()); ok {
				conf[prop.Name] = v
			}
		}

		return conf, nil
	}
}

// resolveYAML is a [kong.ConfigurationLoader] for YAML files holding a flat
// mapping of flag names to values.
func resolveYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		err := yaml.NewDecoder(r).Decode(&raw)
		if err != nil {
			if err != io.EOF {
				log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))
			}

			return config{}, nil
		}

		conf := make(config, len(raw))

		for key, val := range raw {
			if v, ok := flagText(val); ok {
				conf[key] = v
			}
		}

		return conf, nil
	}
}

// flagText converts a decoded value to a form kong accepts for any flag
// type: booleans stay booleans, scalars become strings, and sequences become
// comma-separated strings.
func flagText(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case bool:
		return v, true
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		items := make([]string, 0, len(v))

		for _, e := range v {
			s, ok := flagText(e)
			if !ok {
				continue
			}

			items = append(items, fmt.Sprint(s))
		}

		return strings.Join(items, ","), true
	case map[string]any:
		return nil, false
	default:
		return fmt.Sprint(v), true
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Flag names are matched as given and
// with hyphens replaced by underscores.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
