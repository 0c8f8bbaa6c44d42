package preview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
	"github.com/ardnew/rasi/watch"
)

func compile(t *testing.T, src string) *theme.Tree {
	t.Helper()

	tree, err := theme.Compile(t.Context(),
		[]theme.Source{{Name: "test", Data: []byte(src)}},
		theme.WithBuiltin(false))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	return tree
}

const testTheme = `
window { background-color: #000000; }
textbox { text-color: #ffffff; background-color: #000000; }
textbox selected { text-color: #111111; }
element { padding: 2px; }
`

func newTestModel(t *testing.T, tree **theme.Tree) model {
	t.Helper()

	return newModel(t.Context(),
		func() *theme.Tree { return *tree },
		func(context.Context) error { return nil },
		nil, NewHistory(""), log.Logger{})
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()

	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func TestModel_Filter(t *testing.T) {
	tree := compile(t, testTheme)
	m := newTestModel(t, &tree)

	if got := len(m.matches); got != 3 {
		t.Fatalf("len(matches) = %d, want 3", got)
	}

	m = update(t, m, runes("tbx"))

	w, ok := m.widget()
	if !ok || w != "textbox" {
		t.Errorf("widget() = %q, %v; want textbox", w, ok)
	}

	m = update(t, m, key(tea.KeyEsc))
	if got := len(m.matches); got != 3 {
		t.Errorf("len(matches) after Esc = %d, want 3", got)
	}
}

func TestModel_StateCycle(t *testing.T) {
	tree := compile(t, testTheme)
	m := newTestModel(t, &tree)
	m = update(t, m, runes("textbox"))

	if got := m.state(); got != "" {
		t.Fatalf("state() = %q, want normal", got)
	}

	m = update(t, m, key(tea.KeyTab))
	if got := m.state(); got != "selected" {
		t.Fatalf("state() = %q, want selected", got)
	}

	q, _ := m.query()
	if got := tree.Color(q, "text-color", lang.Black).Hex(); got != "#111111" {
		t.Errorf("text-color in %v = %s", q, got)
	}

	m = update(t, m, key(tea.KeyShiftTab))
	if got := m.state(); got != "" {
		t.Errorf("state() after ShiftTab = %q, want normal", got)
	}
}

func TestModel_Reload(t *testing.T) {
	tree := compile(t, testTheme)
	m := newTestModel(t, &tree)
	m = update(t, m, runes("textbox"), key(tea.KeyTab))

	tree = compile(t, testTheme+"popup { x: 1; }\n")
	m = update(t, m, reloadMsg{watch.Event{Generation: 7}})

	if m.gen != 7 {
		t.Errorf("gen = %d, want 7", m.gen)
	}

	if w, _ := m.widget(); w != "textbox" {
		t.Errorf("selection after reload = %q, want textbox", w)
	}

	if got := m.state(); got != "selected" {
		t.Errorf("state after reload = %q, want selected", got)
	}

	m = update(t, m, key(tea.KeyEsc))
	if got := len(m.matches); got != 4 {
		t.Errorf("len(matches) = %d, want 4", got)
	}
}

func TestModel_View(t *testing.T) {
	tree := compile(t, testTheme)
	m := newTestModel(t, &tree)
	m = update(t, m, runes("textbox"))

	view := m.View()

	for _, want := range []string{"textbox", "text-color", "#ffffff", "contrast 21.00:1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() does not contain %q:\n%s", want, view)
		}
	}

	m = update(t, m, key(tea.KeyCtrlC))
	if !m.quitting || m.View() != "" {
		t.Error("Ctrl+C did not quit")
	}
}

func TestModel_HistoryRecall(t *testing.T) {
	tree := compile(t, testTheme)
	m := newTestModel(t, &tree)

	m = update(t, m, runes("elem"), key(tea.KeyEnter), key(tea.KeyEsc))
	if got := m.history.Entries(); len(got) != 1 || got[0] != "element" {
		t.Fatalf("history = %v, want [element]", got)
	}

	m = update(t, m, key(tea.KeyPgUp))
	if got := m.input.Value(); got != "element" {
		t.Errorf("input after PgUp = %q, want element", got)
	}

	m = update(t, m, key(tea.KeyPgDown))
	if got := m.input.Value(); got != "" {
		t.Errorf("input after PgDown = %q, want empty", got)
	}
}

func TestModel_FailureShown(t *testing.T) {
	tree := compile(t, testTheme)
	m := newTestModel(t, &tree)

	m = update(t, m, failureMsg{theme.ErrVariableNotFound})
	if !strings.Contains(m.View(), "reload failed: variable not found") {
		t.Errorf("View() does not show the failure:\n%s", m.View())
	}

	m = update(t, m, reloadMsg{watch.Event{Generation: 2}})
	if strings.Contains(m.View(), "reload failed") {
		t.Error("failure still shown after a successful reload")
	}
}

func TestWaitFailure(t *testing.T) {
	failures := make(chan error, 1)

	if cmd := waitFailure(t.Context(), nil); cmd != nil {
		t.Error("waitFailure(nil) returned a command")
	}

	failures <- theme.ErrVariableNotFound

	msg := waitFailure(t.Context(), failures)()
	if got, ok := msg.(failureMsg); !ok || !errors.Is(got.err, theme.ErrVariableNotFound) {
		t.Errorf("msg = %#v, want failureMsg", msg)
	}

	// The channel stays open; cancellation alone must end the wait.
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan tea.Msg, 1)

	go func() { done <- waitFailure(ctx, failures)() }()

	cancel()

	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("msg = %#v after cancel, want nil", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waitFailure did not return after cancel")
	}
}
