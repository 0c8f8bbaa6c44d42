package preview

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_AddMovesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, s := range []string{"window", "textbox", "  ", "window", "window", "element"} {
		if err := h.Add(s); err != nil {
			t.Fatalf("Add(%q) error: %v", s, err)
		}
	}

	want := []string{"textbox", "window", "element"}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if diff := cmp.Diff(want, loaded.Entries()); diff != "" {
		t.Errorf("loaded Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 10 {
		_ = h.Add(string(rune('a'+i%26)) + string(rune('0'+i/26)))
	}

	if got := h.Len(); got != maxHistory {
		t.Errorf("Len() = %d, want %d", got, maxHistory)
	}

	if _, ok := h.Get(maxHistory); ok {
		t.Error("Get(maxHistory) succeeded")
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}
