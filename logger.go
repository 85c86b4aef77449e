package sprite

import (
	"log/slog"

	"github.com/gogpu/sprite/internal/logger"
)

// SetLogger configures the logger for sprite and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (draw order rebuilds, tasks)
//   - [slog.LevelInfo]: lifecycle events (context created, resize)
//   - [slog.LevelWarn]: recoverable faults (present failures)
//
// Example:
//
//	sprite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger. It is never nil.
func Logger() *slog.Logger {
	return logger.Get()
}
