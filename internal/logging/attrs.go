package logging

import (
	"context"
	"log/slog"
	"math"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Directory names the directory a pass works in.
func Directory(dir string) Attr { return slog.String("directory", dir) }

// File names a single file inside the pass directory.
func File(name string) Attr { return slog.String("file", name) }

func Source(name string) Attr { return slog.String("source", name) }

func Target(name string) Attr { return slog.String("target", name) }

// Score records a similarity ratio rounded to four places, the precision the
// CLI prints.
func Score(ratio float64) Attr {
	return slog.Float64("score", math.Round(ratio*1e4)/1e4)
}

// Hint attaches the operator's next step to a warning or error.
func Hint(hint string) Attr { return slog.String(FieldErrorHint, hint) }

func EventType(eventType string) Attr { return slog.String(FieldEventType, eventType) }

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always names its event type and a next
// step, filling defaults when attrs carry neither.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	var hasEvent, hasHint bool
	args := make([]any, 0, len(attrs)+2)
	for _, attr := range attrs {
		switch attr.Key {
		case FieldEventType:
			hasEvent = true
		case FieldErrorHint:
			hasHint = true
		}
		args = append(args, attr)
	}
	if !hasEvent {
		args = append(args, EventType(eventType))
	}
	if !hasHint {
		args = append(args, Hint("check logs for details"))
	}
	logger.Warn(msg, args...)
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
