package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// headerKeys are shown in the record header instead of as field lines once
// the level is info or above.
var headerKeys = map[string]struct{}{
	FieldComponent: {},
	FieldSessionID: {},
	FieldItemIndex: {},
	FieldItem:      {},
}

type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     slog.Leveler
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleHeader is the first line of a console record:
//
//	2024-05-01 10:00:00 INFO [session] cats/a.jpg #4 – item shown
type consoleHeader struct {
	time      time.Time
	level     slog.Level
	component string
	item      string
	position  string
	message   string
	source    *slog.Source
}

func (c consoleHeader) writeTo(buf *bytes.Buffer) {
	buf.WriteString(formatTimestamp(c.time))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(c.level))
	if c.component != "" {
		buf.WriteString(" [" + c.component + "]")
	}
	if c.item != "" {
		buf.WriteString(" " + c.item)
	}
	if c.position != "" {
		buf.WriteString(" #" + c.position)
	}
	buf.WriteString(" – ")
	buf.WriteString(c.message)
	if c.source != nil {
		buf.WriteString(" [" + filepath.Base(c.source.File) + ":" + strconv.Itoa(c.source.Line) + "]")
	}
	buf.WriteByte('\n')
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	header := consoleHeader{time: record.Time, level: record.Level, message: strings.TrimSpace(record.Message)}
	if header.time.IsZero() {
		header.time = time.Now()
	}
	if header.message == "" {
		header.message = "(no message)"
	}
	if h.addSource {
		header.source = record.Source()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	fields := make([]kv, 0, len(kvs))
	for _, field := range kvs {
		switch field.key {
		case FieldComponent:
			header.component = attrString(field.value)
		case FieldItem:
			header.item = attrString(field.value)
		case FieldItemIndex:
			// Indexes are zero-based; people count from one.
			if field.value.Kind() == slog.KindInt64 {
				header.position = strconv.FormatInt(field.value.Int64()+1, 10)
			} else {
				header.position = attrString(field.value)
			}
		}
		if _, inHeader := headerKeys[field.key]; inHeader && record.Level >= slog.LevelInfo {
			continue
		}
		fields = append(fields, field)
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*32)
	header.writeTo(&buf)
	for _, field := range fields {
		buf.WriteString("    - " + field.key + ": " + formatValue(field.value) + "\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	clone := &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
	}
	if len(h.attrs) > 0 {
		clone.attrs = make([]slog.Attr, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key and the last value.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
