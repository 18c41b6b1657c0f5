package slidecache

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine,
// including in-flight prerender workers.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for slidecache and all its sub-packages.
// By default, slidecache produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by slidecache:
//   - [slog.LevelDebug]: cache traffic and prerender job outcomes
//   - [slog.LevelInfo]: lifecycle events (backend selected, document swapped)
//   - [slog.LevelWarn]: swallowed failures (backend errors, stale discards
//     that indicate churn)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	slidecache.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full cache diagnostics:
//	slidecache.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by slidecache.
// Backends and the cmd/ tooling call this to share the same logger
// configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the current logger to a backend if it implements
// the loggerSetter interface. Called when a SurfaceCache adopts a backend so
// the backend always logs through the configured handler.
func propagateLogger(b Backend) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(Logger())
	}
}
