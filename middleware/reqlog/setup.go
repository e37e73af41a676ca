package reqlog

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// SetupConfig controls the process-wide log sink. Defaults: info level,
// JSON format, stdout.
type SetupConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// Format is "json" or "text".
	Format string

	// Writer is the output sink.
	Writer io.Writer
}

var (
	setupOnce   sync.Once
	setupLogger *slog.Logger
)

// Setup initializes the process-wide structured logger exactly once, before
// any request-handling task starts, and installs it as the slog default.
// Later calls return the logger from the first initialization; the process
// never reconfigures logging mid-flight.
func Setup(cfg SetupConfig) *slog.Logger {
	setupOnce.Do(func() {
		writer := cfg.Writer
		if writer == nil {
			writer = os.Stdout
		}

		opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

		var handler slog.Handler
		if strings.EqualFold(cfg.Format, "text") {
			handler = slog.NewTextHandler(writer, opts)
		} else {
			handler = slog.NewJSONHandler(writer, opts)
		}

		setupLogger = slog.New(handler)
		slog.SetDefault(setupLogger)
	})
	return setupLogger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
