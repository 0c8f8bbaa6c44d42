// Package log provides leveled structured logging over [log/slog].
//
// A [Logger] is made once with functional options and is safe for
// concurrent use. The zero Logger discards all output.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//	logger.Info("theme loaded", slog.Uint64("generation", 1))
//
// # Levels
//
// In addition to the four [slog] levels there is [LevelTrace], used for
// per-token and per-event detail. Level names are printed in upper case.
//
// # Output
//
// [FormatText] writes key=value lines and [FormatJSON] writes one object per
// record. With [WithPretty] enabled (the default), both are styled for
// terminals with lipgloss, and JSON records are indented. Styling degrades to
// plain text when the output is not a terminal.
//
// # Package Logger
//
// The package-level functions ([Info], [DebugContext], and so on) write to a
// default Logger on standard error. [Config] adjusts it and [SetDefault]
// replaces it.
package log
