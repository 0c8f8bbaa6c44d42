// Package cli contains the command line interface for rasi.
//
// # Usage
//
//	rasi [flags] <command> [args]
//
// Theme files are selected with --theme (-t), repeated or comma-separated,
// in increasing precedence. The builtin theme is merged beneath them unless
// --no-builtin is given. Without a command, rasi runs check.
//
// # Configuration
//
// Flag defaults are read from three files in the per-user configuration
// directory, later files taking precedence:
//
//   - config.json, decoded by kong
//   - config.yaml, a flat mapping of flag names to values
//   - config, a rasi stylesheet whose config rule holds flag values
//
// For example:
//
//	config {
//	  theme:      ["~/.config/rasi/base.rasi"];
//	  log-level:  debug;
//	  log-pretty: false;
//	}
//
// The init command writes the last of these from the current flags. Flags
// given on the command line override every file.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile kind (allocs, block, clock, cpu, goroutine, heap,
//     mem, mutex, thread, trace)
//   - --pprof-dir: output directory, by default under the cache directory
package cli
