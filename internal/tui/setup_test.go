package tui

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/demo"
)

// colorProfileMu serializes tests that mutate the global lipgloss color
// profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that
// assert on styled output. It restores the original profile via
// t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// newTestModel builds a model over the seeded demo fixtures with every
// panel's first page already loaded. Polling is disabled so no timer
// commands fire during tests.
func newTestModel(t *testing.T) Model {
	t.Helper()

	flashDuration = 5 * time.Millisecond
	searchDebounceDelay = 5 * time.Millisecond

	client := demo.NewLocalClient(demo.NewStore())
	m := New(client, Options{Version: "test", PageSize: 10})
	m.width = 140
	m.height = 30
	loadPanels(t, m)
	return m
}

// loadPanels fetches the current query of every panel synchronously.
func loadPanels(t *testing.T, m Model) {
	t.Helper()
	for _, p := range m.panels {
		if _, err := p.ctl.Fetcher.Fetch(context.Background(), p.ctl.Fetcher.Query()); err != nil {
			t.Fatalf("load %s: %v", p.res, err)
		}
	}
}

// press feeds one key press into the model.
func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

// pressCmd is press but also returns the command for tests that need it.
func pressCmd(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runCmd executes a command synchronously and feeds resulting messages
// back into the model until none remain. Flash expiry ticks are dropped
// so tests can assert on the message text afterwards.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(flashClearMsg); ok {
			continue
		}
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		if nextCmd != nil {
			queue = append(queue, nextCmd)
		}
	}
	return m
}

// usersPanel returns the users panel of m.
func usersPanel(t *testing.T, m Model) *panel {
	t.Helper()
	p := m.panelFor(admin.ResourceUsers)
	if p == nil {
		t.Fatal("users panel missing")
	}
	return p
}
