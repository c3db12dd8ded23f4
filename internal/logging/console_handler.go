package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders compact human-readable lines:
//
//	15:04:05 INFO  [linker] contacts linked  examined=12 linked=9
//
// The component attribute, when present, is pulled into the bracketed prefix
// instead of being repeated in the key/value tail.
type consoleHandler struct {
	mu     sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &consoleHandler{writer: w, level: lvl}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	attrs := make([]slog.Attr, 0, record.NumAttrs()+len(h.attrs))
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, h.qualify(attr))
		return true
	})

	var component string
	tail := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key == FieldComponent && component == "" {
			component = attr.Value.String()
			continue
		}
		tail = append(tail, attr)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(tail)*24)
	buf.WriteString(timestamp.Format("15:04:05"))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	buf.WriteByte(' ')
	if component != "" {
		buf.WriteByte('[')
		buf.WriteString(component)
		buf.WriteString("] ")
	}
	buf.WriteString(message)
	for _, attr := range tail {
		buf.WriteString("  ")
		buf.WriteString(attr.Key)
		buf.WriteByte('=')
		buf.WriteString(attrValue(attr.Value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := h.clone()
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, clone.qualify(attr))
	}
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if strings.TrimSpace(name) == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	return &consoleHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *consoleHandler) qualify(attr slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return attr
	}
	attr.Key = strings.Join(h.groups, ".") + "." + attr.Key
	return attr
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func attrValue(value slog.Value) string {
	resolved := value.Resolve()
	if resolved.Kind() == slog.KindTime {
		return resolved.Time().UTC().Format(time.RFC3339)
	}
	text := resolved.String()
	if strings.ContainsAny(text, " \t") {
		return fmt.Sprintf("%q", text)
	}
	return text
}
