package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// sink is one named destination of the process logger. Each sink filters by
// its own level, so the log file can keep info records the console hides.
type sink struct {
	name    string
	handler slog.Handler
}

type fanoutHandler struct {
	sinks []sink
}

func newFanoutHandler(sinks ...sink) slog.Handler {
	var kept []sink
	for _, s := range sinks {
		if s.handler != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 1 {
		return kept[0].handler
	}
	return &fanoutHandler{sinks: kept}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes record to every sink that accepts its level. A failing sink
// does not stop the others; all failures are joined and named.
func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for idx, s := range h.sinks {
		if !s.handler.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if idx < len(h.sinks)-1 {
			rec = record.Clone()
		}
		if err := s.handler.Handle(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s log: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.each(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (h *fanoutHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = sink{name: s.name, handler: fn(s.handler)}
	}
	return &fanoutHandler{sinks: next}
}
