// Package cmd implements the rasi subcommands.
//
// Commands receive their shared state through the context: the parsed
// [kong.Context] ([WithContext]), the selected theme files ([WithThemes]),
// and an optional output writer ([WithOutput]) that defaults to standard
// output.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the rasi configuration file. It is also the widget name of the rule in
	// that file that holds flag values.
	ConfigIdentifier = "config"
)
