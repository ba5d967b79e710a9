package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler reports records at or above level to Sentry as events.
// Attributes become event extras.
type SentryHandler struct {
	level  slog.Leveler
	hub    func(ctx context.Context) *sentry.Hub
	attrs  []slog.Attr
	groups []string
}

func NewSentryHandler(level slog.Leveler) *SentryHandler {
	return &SentryHandler{
		level: level,
		hub:   hubFromContext,
	}
}

func hubFromContext(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *SentryHandler) Handle(ctx context.Context, record slog.Record) error {
	event := sentry.NewEvent()
	event.Message = record.Message
	event.Level = sentryLevel(record.Level)
	event.Timestamp = record.Time
	event.Logger = "slog"

	for _, attr := range h.attrs {
		addExtra(event.Extra, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		addExtra(event.Extra, h.groups, attr)
		return true
	})

	h.hub(ctx).CaptureEvent(event)
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func addExtra(extra map[string]any, groups []string, attr slog.Attr) {
	key := attr.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}
	value := attr.Value.Resolve()
	if err, ok := value.Any().(error); ok {
		extra[key] = err.Error()
		return
	}
	extra[key] = fmt.Sprint(value.Any())
}

func sentryLevel(level slog.Level) sentry.Level {
	switch {
	case level >= slog.LevelError:
		return sentry.LevelError
	case level >= slog.LevelWarn:
		return sentry.LevelWarning
	case level >= slog.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
