package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"warn+1", Level(5)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level

	if err := l.UnmarshalText([]byte("debug")); err != nil || l != LevelDebug {
		t.Errorf("UnmarshalText(debug) = %v, %v", l, err)
	}

	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText(loud) succeeded")
	}
}

func TestLevels(t *testing.T) {
	want := []string{"trace", "debug", "info", "warn", "error"}
	if got := slices.Collect(Levels()); !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}

	for _, name := range want {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" JSON ", FormatJSON},
		{"text", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestOptions(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.level != LevelWarn || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("config = %+v", c)
	}

	if c.output != nil {
		t.Error("output set without WithOutput")
	}

	if c = WithOutput(nil)(c); c.output == nil {
		t.Error("WithOutput(nil) left output nil")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T14:07:09Z"},
		{"rfc3339nano", "2024-03-05T14:07:09.123456789Z"},
		{"Kitchen", "2:07PM"},
		{"DateTime", "2024-03-05 14:07:09"},
		{"ms", "Mar  5 14:07:09.123"},
		{"2006/01/02", "2024/03/05"},
		{"none", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}
