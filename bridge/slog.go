// Package bridge routes existing loggers into a console.Table so their output
// is guarded like direct diagnostic calls.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terassyi/consoleguard/console"
)

// SlogHandler is a slog.Handler that forwards records to a console table.
// Only records at or above the configured level are forwarded.
type SlogHandler struct {
	table *console.Table
	level slog.Leveler
	attrs string
	group string
}

// NewSlogHandler creates a handler writing to table.
func NewSlogHandler(table *console.Table, level slog.Leveler) *SlogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &SlogHandler{
		table: table,
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record and calls the channel matching its level.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})

	h.table.Call(slogMethod(r.Level), b.String())
	return nil
}

// WithAttrs returns a new handler with the given attributes.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&b, h.group, a)
	}
	return &SlogHandler{
		table: h.table,
		level: h.level,
		attrs: b.String(),
		group: h.group,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{
		table: h.table,
		level: h.level,
		attrs: h.attrs,
		group: qualify(h.group, name),
	}
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix = qualify(group, a.Key)
		}
		for _, ga := range v.Group() {
			writeAttr(b, prefix, ga)
		}
		return
	}
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " %s=%q", qualify(group, a.Key), v.String())
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func slogMethod(level slog.Level) console.Method {
	switch {
	case level < slog.LevelInfo:
		return console.MethodDebug
	case level < slog.LevelWarn:
		return console.MethodInfo
	case level < slog.LevelError:
		return console.MethodWarn
	default:
		return console.MethodError
	}
}
