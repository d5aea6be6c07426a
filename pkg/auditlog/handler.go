package auditlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Forwarder accepts entries for background delivery.
type Forwarder interface {
	Send(ctx context.Context, e Entry)
}

// Handler is a slog.Handler that writes every record to the wrapped handler and forwards records at or above
// a minimum level to the log channel.
type Handler struct {
	inner    slog.Handler
	fwd      Forwarder
	minLevel slog.Level

	attrs  []slog.Attr
	prefix string
}

// NewHandler wraps inner. The forwarder must not log through the returned handler.
func NewHandler(inner slog.Handler, fwd Forwarder, minLevel slog.Level) *Handler {
	return &Handler{
		inner:    inner,
		fwd:      fwd,
		minLevel: minLevel,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	err := h.inner.Handle(ctx, r)

	if r.Level >= h.minLevel {
		h.fwd.Send(ctx, h.entry(r))
	}

	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		c.attrs = append(c.attrs, prefixed(h.prefix, a))
	}
	return c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	c.prefix = h.prefix + name + "."
	return c
}

func (h *Handler) clone() *Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

func (h *Handler) entry(r slog.Record) Entry {
	lines := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		lines = append(lines, formatAttr(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		lines = append(lines, formatAttr(prefixed(h.prefix, a)))
		return true
	})

	return Entry{
		Level:       levelFromSlog(r.Level),
		Title:       r.Message,
		Description: strings.Join(lines, "\n"),
	}
}

func prefixed(prefix string, a slog.Attr) slog.Attr {
	if prefix == "" {
		return a
	}
	return slog.Attr{Key: prefix + a.Key, Value: a.Value}
}

func formatAttr(a slog.Attr) string {
	return fmt.Sprintf("**%s:** %s", a.Key, a.Value.Resolve().String())
}

func levelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError+4:
		return LevelCritical
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarning
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}
