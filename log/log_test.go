package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(w *bytes.Buffer, opts ...Option) Logger {
	return Make(w, append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)...)
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()

	var m map[string]any

	err := json.Unmarshal(b, &m)
	if err != nil {
		t.Fatalf("invalid JSON %q: %v", b, err)
	}

	return m
}

func TestLogger_Make_Defaults(t *testing.T) {
	l := Make(nil)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}

	if l.caller != DefaultCaller || l.pretty != DefaultPretty {
		t.Errorf("caller=%v pretty=%v", l.caller, l.pretty)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		log   func(Logger)
		want  bool
	}{
		{LevelInfo, func(l Logger) { l.Trace("m") }, false},
		{LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{LevelInfo, func(l Logger) { l.Info("m") }, true},
		{LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{LevelError, func(l Logger) { l.Warn("m") }, false},
		{LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for i, tt := range tests {
		var buf bytes.Buffer

		tt.log(plain(&buf, WithLevel(tt.level)))

		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("case %d: logged = %v, want %v (%q)", i, got, tt.want, buf.String())
		}
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON)).Trace("deep")

	if got := decode(t, buf.Bytes())["level"]; got != "TRACE" {
		t.Errorf("level = %v, want TRACE", got)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithFormat(FormatJSON))
	l.Info("hello", slog.String("key", "value"), slog.Int("n", 3))

	m := decode(t, buf.Bytes())

	if m["msg"] != "hello" || m["key"] != "value" || m["n"] != float64(3) {
		t.Errorf("entry = %v", m)
	}

	if _, ok := m["time"]; ok {
		t.Errorf("time present with layout none: %v", m)
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	tests := []struct {
		layout   string
		contains string
	}{
		{"RFC3339", "T"},
		{"rfc-3339-nano", "."},
		{"kitchen", "M"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithPretty(false), WithFormat(FormatJSON), WithTimeLayout(tt.layout)).Info("x")

			ts, _ := decode(t, buf.Bytes())["time"].(string)
			if !strings.Contains(ts, tt.contains) {
				t.Errorf("time %q does not contain %q", ts, tt.contains)
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithFormat(FormatJSON), WithCaller(true)).Info("here")

	src, ok := decode(t, buf.Bytes())["source"].(map[string]any)
	if !ok {
		t.Fatalf("no source in %s", buf.String())
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithFormat(FormatJSON)).With(slog.String("component", "watch"))
	l.WithGroup("g").Info("m", slog.Int("a", 1))

	m := decode(t, buf.Bytes())
	if m["component"] != "watch" {
		t.Errorf("component = %v", m["component"])
	}

	if g, _ := m["g"].(map[string]any); g["a"] != float64(1) {
		t.Errorf("group = %v", m["g"])
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf).Wrap(WithFormat(FormatJSON), WithLevel(LevelDebug))
	l.Debug("wrapped")

	if l.Format() != FormatJSON || l.Level() != LevelDebug {
		t.Errorf("Wrap() format=%v level=%v", l.Format(), l.Level())
	}

	if decode(t, buf.Bytes())["msg"] != "wrapped" {
		t.Errorf("output %q", buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("x")
	l.Debug("x")
	l.Info("x")
	l.WarnContext(t.Context(), "x")
	l.Error("x")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With() on zero Logger created a logger")
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	l := plain(&buf, WithFormat(FormatJSON))

	for i := range 16 {
		wg.Go(func() { l.Info("concurrent", slog.Int("id", i)) })
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("got %d lines, want 16", got)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	l := Make(nil, WithPretty(false))

	for b.Loop() {
		l.Info("message", slog.String("key", "value"))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	var buf bytes.Buffer

	l := Make(&buf)

	for b.Loop() {
		buf.Reset()
		l.Info("message", slog.String("key", "value"))
	}
}
