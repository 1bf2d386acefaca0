package logging

import (
	"context"
	"log/slog"
)

// MultiHandler duplicates every record to a set of targets, each applying its
// own level gate. It pairs the stdout JSON handler with the Postgres error
// sink; a failing target does not stop delivery to the others.
type MultiHandler struct {
	targets []slog.Handler
}

func NewMultiHandler(targets ...slog.Handler) *MultiHandler {
	return &MultiHandler{targets: targets}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range m.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, t := range m.targets {
		if !t.Enabled(ctx, record.Level) {
			continue
		}
		if err := t.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.targets))
	for i, t := range m.targets {
		next[i] = t.WithAttrs(attrs)
	}
	return &MultiHandler{targets: next}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.targets))
	for i, t := range m.targets {
		next[i] = t.WithGroup(name)
	}
	return &MultiHandler{targets: next}
}
