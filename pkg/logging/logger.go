// Package logging wraps log/slog with the output conventions shared by the
// carrier server and clients: JSON records on stdout, a level taken from
// CARRIER_LOG_LEVEL, and redaction of credential-shaped attribute values.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger emits structured JSON log records. All methods take a context so
// callers on request or connection paths can pass theirs through to slog.
type Logger struct {
	sl *slog.Logger
}

// NewLogger returns a Logger writing JSON to stdout. The level comes from
// CARRIER_LOG_LEVEL (DEBUG, INFO, WARN, ERROR) and defaults to INFO.
func NewLogger() *Logger {
	return newLogger(os.Stdout)
}

func newLogger(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(os.Getenv("CARRIER_LOG_LEVEL")),
		ReplaceAttr: redactSensitive,
	})
	return &Logger{sl: slog.New(handler)}
}

// With returns a Logger that stamps every record with the given attributes,
// such as the component name or a client connection id.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sl: l.sl.With(args...)}
}

// Debug logs a debug message.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.sl.Log(ctx, slog.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.sl.Log(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.sl.Log(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message. A non-nil err is attached as the "error"
// attribute so the cause survives into the JSON record.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.sl.Log(ctx, slog.LevelError, msg, args...)
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Attribute keys containing any of these fragments are masked. Player names
// and server addresses arrive from the network, so a careless caller could
// otherwise echo credentials embedded in them.
var sensitiveFragments = []string{
	"password", "passwd", "pwd",
	"token", "auth", "secret",
	"key", "private", "cookie", "session",
}

func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, fragment := range sensitiveFragments {
		if strings.Contains(key, fragment) {
			a.Value = slog.StringValue("[REDACTED]")
			return a
		}
	}
	return a
}
