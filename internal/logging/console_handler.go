package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes a header line per record and indents its attributes
// underneath. Info and above show curated "- Label: value" lines; debug
// records list every key as-is.
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     *slog.LevelVar
	addSource bool
	preset    []slog.Attr
	groups    []string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, out: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := newFieldList(record.NumAttrs() + len(h.preset))
	for _, attr := range h.preset {
		fields.add(h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields.add(h.groups, attr)
		return true
	})

	subject, body := splitHeader(fields.entries)

	var b strings.Builder
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(formatTimestamp(ts))
	b.WriteString(" " + levelLabel(record.Level))
	if subject.component != "" {
		b.WriteString(" [" + subject.component + "]")
	}
	if s := composeSubject(subject.runID, subject.stage, subject.chunk); s != "" {
		b.WriteString(" " + s)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" – " + msg)
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	if record.Level < slog.LevelInfo {
		writeDebugBody(&b, body)
	} else {
		writeInfoBody(&b, body)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func writeDebugBody(b *strings.Builder, body []kv) {
	for _, entry := range body {
		fmt.Fprintf(b, "    %s: %s\n", entry.key, formatValue(entry.value))
	}
}

func writeInfoBody(b *strings.Builder, body []kv) {
	shown, hidden := selectInfoFields(body)
	for _, field := range shown {
		fmt.Fprintf(b, "    - %s: %s\n", field.label, field.value)
	}
	switch {
	case hidden == 1:
		b.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		fmt.Fprintf(b, "    + %d more fields hidden\n", hidden)
	}
}

type headerSubject struct {
	component string
	runID     string
	stage     string
	chunk     string
}

// splitHeader pulls the header fields out of entries. The component only
// appears in the header; run, stage and chunk stay in the body as well.
func splitHeader(entries []kv) (headerSubject, []kv) {
	var subject headerSubject
	body := make([]kv, 0, len(entries))
	for _, entry := range entries {
		switch entry.key {
		case FieldComponent:
			subject.component = attrString(entry.value)
			continue
		case FieldRunID:
			subject.runID = attrString(entry.value)
		case FieldStage:
			subject.stage = attrString(entry.value)
		case FieldChunk:
			subject.chunk = attrString(entry.value)
		}
		body = append(body, entry)
	}
	return subject, body
}

// composeSubject renders "Run 1a2b3c4d · synthesize (chunk 3)".
func composeSubject(runID, stage, chunk string) string {
	runID = strings.TrimSpace(runID)
	stage = strings.TrimSpace(stage)
	chunk = strings.TrimSpace(chunk)

	var parts []string
	if runID != "" {
		if len(runID) > 8 {
			runID = runID[:8]
		}
		parts = append(parts, "Run "+runID)
	}
	switch {
	case stage != "" && chunk != "":
		parts = append(parts, stage+" (chunk "+chunk+")")
	case stage != "":
		parts = append(parts, stage)
	case chunk != "":
		parts = append(parts, "chunk "+chunk)
	}
	return strings.Join(parts, " · ")
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.derive()
	next.preset = append(next.preset, attrs...)
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.derive()
	next.groups = append(next.groups, name)
	return next
}

func (h *consoleHandler) derive() *consoleHandler {
	next := *h
	next.preset = append([]slog.Attr(nil), h.preset...)
	next.groups = append([]string(nil), h.groups...)
	return &next
}

type kv struct {
	key   string
	value slog.Value
}

// fieldList flattens groups into dotted keys. A repeated key keeps its first
// position and takes the latest value, so child loggers override parents.
type fieldList struct {
	entries []kv
	index   map[string]int
}

func newFieldList(capacity int) *fieldList {
	return &fieldList{entries: make([]kv, 0, capacity), index: make(map[string]int, capacity)}
}

func (f *fieldList) add(prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, child := range attr.Value.Group() {
			f.add(inner, child)
		}
		return
	}
	if attr.Key == "" {
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	if pos, ok := f.index[key]; ok {
		f.entries[pos].value = attr.Value
		return
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, kv{key: key, value: attr.Value})
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
