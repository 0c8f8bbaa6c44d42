package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/log"
	"github.com/ardnew/rasi/theme"
	"github.com/ardnew/rasi/watch"
)

// minContrast is the WCAG AA ratio for normal text.
const minContrast = 4.5

const (
	filterPrompt = "⌕ "
	defaultWidth = 80
	swatchWidth  = 4
)

// Styles.
var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// reloadMsg is sent when the watcher publishes a new snapshot.
type reloadMsg struct{ watch.Event }

// reloadErrorMsg is sent when a reload requested from the preview fails.
type reloadErrorMsg struct{ err error }

// failureMsg is sent when the watcher reports a failed reload.
type failureMsg struct{ err error }

// model is the Bubble Tea model for the theme preview.
type model struct {
	ctx      context.Context
	snapshot func() *theme.Tree
	reload   func(context.Context) error
	events   <-chan watch.Event
	failures <-chan error
	logger   log.Logger

	tree    *theme.Tree
	gen     uint64
	err     error
	input   textinput.Model
	history *History
	histIdx int

	matches  fuzzy.Matches
	selected int
	states   []string // "" followed by the states declared in the theme
	stateIdx int
	width    int
	quitting bool
}

// Run shows an interactive preview of the theme published by w until the
// user quits or ctx is done. The watcher must already be running. Reload
// failures received from failures are shown until the next snapshot.
func Run(
	ctx context.Context,
	w *watch.Watcher,
	failures <-chan error,
	cacheDir string,
	logger log.Logger,
) error {
	history := NewHistory("")
	if cacheDir != "" {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load preview history", slog.Any("error", err))
	}

	events, cancel := w.Subscribe()
	defer cancel()

	m := newModel(ctx, w.Snapshot, w.Reload, events, history, logger)
	m.failures = failures
	m.gen = w.Generation()

	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()

	return err
}

func newModel(
	ctx context.Context,
	snapshot func() *theme.Tree,
	reload func(context.Context) error,
	events <-chan watch.Event,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(filterPrompt)
	ti.Placeholder = "widget"
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = defaultWidth

	m := model{
		ctx:      ctx,
		snapshot: snapshot,
		reload:   reload,
		events:   events,
		logger:   logger,
		input:    ti,
		history:  history,
		histIdx:  history.Len(),
		width:    defaultWidth,
	}

	m.setTree(snapshot())

	return m
}

// waitReload blocks until the watcher publishes a new snapshot.
func waitReload(events <-chan watch.Event) tea.Cmd {
	if events == nil {
		return nil
	}

	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}

		return reloadMsg{ev}
	}
}

// waitFailure blocks until a reload fails or ctx is done. The failures
// channel is shared with the watcher and never closed.
func waitFailure(ctx context.Context, failures <-chan error) tea.Cmd {
	if failures == nil {
		return nil
	}

	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-failures:
			if !ok {
				return nil
			}

			return failureMsg{err}
		}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitReload(m.events), waitFailure(m.ctx, m.failures))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(filterPrompt) - 2

		return m, nil

	case reloadMsg:
		m.gen = msg.Generation
		m.err = nil
		m.setTree(m.snapshot())
		m.logger.TraceContext(m.ctx, "preview reload",
			slog.Uint64("generation", msg.Generation))

		return m, waitReload(m.events)

	case reloadErrorMsg:
		m.err = msg.err

		return m, nil

	case failureMsg:
		m.err = msg.err

		return m, waitFailure(m.ctx, m.failures)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		m.input.SetValue("")
		m.histIdx = m.history.Len()
		m.refresh()

		return m, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if m.selected > 0 {
			m.selected--
		}

		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.selected < len(m.matches)-1 {
			m.selected++
		}

		return m, nil

	case tea.KeyTab:
		m.stateIdx = (m.stateIdx + 1) % len(m.states)

		return m, nil

	case tea.KeyShiftTab:
		m.stateIdx = (m.stateIdx + len(m.states) - 1) % len(m.states)

		return m, nil

	case tea.KeyPgUp:
		return m.historyStep(-1), nil

	case tea.KeyPgDown:
		return m.historyStep(+1), nil

	case tea.KeyEnter:
		if w, ok := m.widget(); ok {
			if err := m.history.Add(w); err != nil {
				m.logger.WarnContext(m.ctx, "could not save preview history",
					slog.Any("error", err))
			}

			m.histIdx = m.history.Len()
		}

		return m, nil

	case tea.KeyCtrlR:
		return m, m.forceReload()
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.histIdx = m.history.Len()
	m.refresh()

	return m, cmd
}

func (m model) forceReload() tea.Cmd {
	ctx, reload := m.ctx, m.reload
	if reload == nil {
		return nil
	}

	return func() tea.Msg {
		if err := reload(ctx); err != nil {
			return reloadErrorMsg{err}
		}

		return nil
	}
}

func (m model) historyStep(delta int) model {
	idx := m.histIdx + delta
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.histIdx = idx

	if s, ok := m.history.Get(idx); ok {
		m.input.SetValue(s)
	} else {
		m.input.SetValue("")
	}

	m.input.CursorEnd()
	m.refresh()

	return m
}

// setTree installs a new snapshot, keeping the selected widget and state when
// they still exist.
func (m *model) setTree(tree *theme.Tree) {
	prevWidget, _ := m.widget()
	prevState := m.state()

	m.tree = tree
	m.states = append([]string{""}, tree.States()...)
	m.stateIdx = 0

	for i, s := range m.states {
		if s == prevState {
			m.stateIdx = i
		}
	}

	m.refresh()

	for i, match := range m.matches {
		if match.Str == prevWidget {
			m.selected = i
		}
	}
}

// refresh recomputes the widget list for the current filter.
func (m *model) refresh() {
	widgets := m.tree.Widgets()
	filter := strings.TrimSpace(m.input.Value())

	if filter == "" {
		m.matches = make(fuzzy.Matches, len(widgets))
		for i, w := range widgets {
			m.matches[i] = fuzzy.Match{Str: w, Index: i}
		}
	} else {
		m.matches = fuzzy.Find(filter, widgets)
	}

	if m.selected >= len(m.matches) {
		m.selected = max(len(m.matches)-1, 0)
	}
}

func (m model) widget() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return "", false
	}

	return m.matches[m.selected].Str, true
}

func (m model) state() string {
	if m.stateIdx < 0 || m.stateIdx >= len(m.states) {
		return ""
	}

	return m.states[m.stateIdx]
}

func (m model) query() (theme.Query, bool) {
	w, ok := m.widget()

	return theme.Query{Widget: w, State: m.state()}, ok
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	state := m.state()
	if state == "" {
		state = "normal"
	}

	b.WriteString(hintStyle.Render(fmt.Sprintf(
		"generation %d · state %s · ↑/↓ select · tab state · ^R reload · ^C quit",
		m.gen, state)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("reload failed: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	for i, match := range m.matches {
		if i == m.selected {
			b.WriteString(selectedStyle.Render(match.Str))
		} else {
			b.WriteString(renderMatch(match))
		}

		b.WriteString("  ")
	}

	b.WriteString("\n\n")

	q, ok := m.query()
	if !ok {
		b.WriteString(hintStyle.Render("no matching widget"))
		b.WriteString("\n")

		return b.String()
	}

	b.WriteString(headerStyle.Render(q.String()))
	b.WriteString("\n")
	b.WriteString(m.renderProperties(q))

	return b.String()
}

func (m model) renderProperties(q theme.Query) string {
	props := m.tree.Properties(q)

	pad := 0
	for _, p := range props {
		pad = max(pad, len(p))
	}

	var b strings.Builder

	for _, p := range props {
		v, ok := m.tree.Lookup(q, p)
		if !ok {
			continue
		}

		b.WriteString("  ")
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-*s", pad, p)))
		b.WriteString("  ")

		if c, ok := v.AsColor(); ok {
			b.WriteString(swatch(c))
			b.WriteString(" ")
		}

		b.WriteString(valueStyle.Render(v.String()))
		b.WriteString("\n")
	}

	if line, ok := m.contrastLine(q); ok {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// contrastLine reports the contrast between the text and background colors
// of q, if both are set.
func (m model) contrastLine(q theme.Query) (string, bool) {
	fg, ok := m.tree.Lookup(q, "text-color")
	if !ok {
		return "", false
	}

	bg, ok := m.tree.Lookup(q, "background-color")
	if !ok {
		return "", false
	}

	fc, fok := fg.AsColor()
	bc, bok := bg.AsColor()

	if !fok || !bok {
		return "", false
	}

	ratio := fc.Contrast(bc)
	text := fmt.Sprintf("contrast %.2f:1", ratio)

	sample := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fc.Colorful().Hex())).
		Background(lipgloss.Color(bc.Colorful().Hex())).
		Render(" Sample ")

	if ratio < minContrast {
		return sample + " " + errorStyle.Render(text+" (below AA)"), true
	}

	return sample + " " + passStyle.Render(text), true
}

// swatch renders a block filled with c.
func swatch(c lang.Color) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Colorful().Hex())).
		Render(strings.Repeat(" ", swatchWidth))
}

// renderMatch underlines the characters of a widget name matched by the
// filter.
func renderMatch(match fuzzy.Match) string {
	if len(match.MatchedIndexes) == 0 {
		return match.Str
	}

	hit := lipgloss.NewStyle().Underline(true).Bold(true)

	var b strings.Builder

	next := 0

	for i, r := range match.Str {
		if next < len(match.MatchedIndexes) && match.MatchedIndexes[next] == i {
			b.WriteString(hit.Render(string(r)))

			next++

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
