package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/rasi/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("theme loaded", slog.Uint64("generation", 1))
	logger.Debug("not shown")

	// Output:
	// {"level":"INFO","msg":"theme loaded","generation":1}
}

func Example_text() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelTrace),
	).With(slog.String("component", "watch"))

	logger.Trace("file event", slog.String("op", "WRITE"))

	// Output:
	// level=TRACE msg="file event" component=watch op=WRITE
}
