package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Module is anything with a short String() identifying what logged a line
// (a KeyChain, a cache, a policy manager, ...). Passing nil is fine.
type Module interface {
	String() string
}

var base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelDebug,
}))

// SetHandler replaces the process-wide slog handler, e.g. to redirect
// output in tests or switch to JSON in production.
func SetHandler(h slog.Handler) {
	base = slog.New(h)
}

func moduleArgs(m Module, args []any) []any {
	if m == nil {
		return args
	}
	return append([]any{"module", m.String()}, args...)
}

// Trace logs at LevelTrace (below slog's own Debug).
func Trace(m Module, msg string, args ...any) {
	base.Log(context.Background(), slog.Level(LevelTrace), msg, moduleArgs(m, args)...)
}

// Debug logs at LevelDebug.
func Debug(m Module, msg string, args ...any) {
	base.Log(context.Background(), slog.Level(LevelDebug), msg, moduleArgs(m, args)...)
}

// Info logs at LevelInfo.
func Info(m Module, msg string, args ...any) {
	base.Log(context.Background(), slog.Level(LevelInfo), msg, moduleArgs(m, args)...)
}

// Warn logs at LevelWarn.
func Warn(m Module, msg string, args ...any) {
	base.Log(context.Background(), slog.Level(LevelWarn), msg, moduleArgs(m, args)...)
}

// Error logs at LevelError.
func Error(m Module, msg string, args ...any) {
	base.Log(context.Background(), slog.Level(LevelError), msg, moduleArgs(m, args)...)
}

// Fatal logs at LevelFatal and then panics; reserved for programmer errors
// that indicate the process's state is no longer trustworthy.
func Fatal(m Module, msg string, args ...any) {
	base.Log(context.Background(), slog.Level(LevelFatal), msg, moduleArgs(m, args)...)
	panic(fmt.Sprintf("fatal: %s", msg))
}
