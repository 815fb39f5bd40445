package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init replaces the default logger with one at the given level
// ("debug", "info", "warn", "error").
func Init(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	mu.Lock()
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, args ...any) {
	current().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	current().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	current().Error(msg, normalize(args)...)
}

// normalize tolerates the bare-error call shape used across repositories,
// logger.Error("EventRepository:Create", err), by keying lone values.
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
		return []any{"detail", args[0]}
	}
	if len(args)%2 != 0 {
		return append(args, "(missing)")
	}
	return args
}
