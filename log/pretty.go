package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handler. Styles are bound to a
// renderer for the output writer, so they render as plain text when the
// writer is not a terminal.
type palette struct {
	key, str, num, flag, dur, stamp, msg lipgloss.Style

	trace, debug, info, warn, err lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		flag:  fg("2"),
		dur:   fg("5"),
		stamp: fg("4"),
		msg:   r.NewStyle().Bold(true),

		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

type field struct {
	key   string
	value slog.Value
}

// prettyHandler renders records as colorized key=value lines or as indented
// JSON objects.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	style  palette

	mu *sync.Mutex
	w  io.Writer

	attrs  []field
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		style:  makePalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = h.flatten(c.attrs, h.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.flatten(fields, nil, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.flatten(fields, nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = h.flatten(fields, nil,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = h.flatten(fields, nil, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.groups, a)

		return true
	})

	buf := new(bytes.Buffer)
	if h.format == FormatJSON {
		h.writeJSON(buf, fields, r.Level)
	} else {
		h.writeText(buf, fields, r.Level)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends a to fields, resolving LogValuers, expanding groups into
// dotted keys, and applying ReplaceAttr.
func (h *prettyHandler) flatten(fields []field, groups []string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(slices.Clip(groups), a.Key)
		}

		for _, ga := range a.Value.Group() {
			fields = h.flatten(fields, sub, ga)
		}

		return fields
	}

	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	return append(fields, field{key: key, value: a.Value})
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, fields []field, level slog.Level) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(f.key + "="))

		switch f.key {
		case slog.LevelKey:
			buf.WriteString(h.style.level(level).Render(f.value.String()))

		case slog.MessageKey:
			buf.WriteString(h.style.msg.Render(quoteText(f.value.String())))

		default:
			buf.WriteString(h.styleOf(f.value).Render(h.text(f.value)))
		}
	}
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, fields []field, level slog.Level) {
	buf.WriteString("{")

	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(strconv.Quote(f.key)))
		buf.WriteString(": ")

		style := h.styleOf(f.value)
		if f.key == slog.LevelKey {
			style = h.style.level(level)
		}

		buf.WriteString(style.Render(jsonValue(f.value)))
	}

	buf.WriteString("\n}")
}

func (h *prettyHandler) styleOf(v slog.Value) lipgloss.Style {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num
	case slog.KindBool:
		return h.style.flag
	case slog.KindDuration:
		return h.style.dur
	case slog.KindTime:
		return h.style.stamp
	default:
		return h.style.str
	}
}

func (h *prettyHandler) text(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteText(v.String())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteText(err.Error())
		}

		return quoteText(v.String())
	default:
		return v.String()
	}
}

// quoteText quotes s if it would not read back as a single token.
func quoteText(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}

	return s
}

func jsonValue(v slog.Value) string {
	var x any

	switch v.Kind() {
	case slog.KindString:
		x = v.String()
	case slog.KindInt64:
		x = v.Int64()
	case slog.KindUint64:
		x = v.Uint64()
	case slog.KindFloat64:
		x = v.Float64()
	case slog.KindBool:
		x = v.Bool()
	case slog.KindDuration:
		x = v.Duration().String()
	case slog.KindTime:
		x = v.Time()
	default:
		x = v.Any()
		if err, ok := x.(error); ok {
			x = err.Error()
		}
	}

	b, err := json.Marshal(x)
	if err != nil {
		b, _ = json.Marshal(fmt.Sprint(x))
	}

	return string(b)
}
