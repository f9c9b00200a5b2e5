package logging

import (
	"context"
	"errors"
	"log/slog"
)

// splitHandler writes each record to the terminal and to the log file. Each
// side filters by its own level, so the file keeps info records the terminal
// hides.
type splitHandler struct {
	terminal slog.Handler
	file     slog.Handler
}

func newSplitHandler(terminal, file slog.Handler) slog.Handler {
	switch {
	case terminal == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return terminal
	case terminal == nil:
		return file
	}
	return &splitHandler{terminal: terminal, file: file}
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.terminal.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

// Handle keeps writing to the file when the terminal write fails and joins
// both errors.
func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	var termErr, fileErr error
	if h.terminal.Enabled(ctx, record.Level) {
		termErr = h.terminal.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		fileErr = h.file.Handle(ctx, record)
	}
	return errors.Join(termErr, fileErr)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{terminal: h.terminal.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{terminal: h.terminal.WithGroup(name), file: h.file.WithGroup(name)}
}
