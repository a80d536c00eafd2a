package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veloxpay/payops/internal/console"
)

// handleKey is the top-level key dispatcher. Modal layers and the search
// bar capture input before the list keys run.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		m.bus.Close()
		for _, p := range m.panels {
			p.ctl.Close()
		}
		return m, tea.Quit
	}

	if cur, ok := m.modals.Current(); ok {
		return m.handleModalKey(msg, cur)
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	return m.handleListKey(msg)
}

// handleSearchKey handles keys while the search bar is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchDebounce++
		p := m.activePanel()
		return m, m.refreshPanel(p, p.ctl.Fetcher.Query().WithSearch(m.searchInput.Value()))

	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchDebounce++
		p := m.activePanel()
		if p.ctl.Fetcher.Query().Search != "" {
			return m, m.refreshPanel(p, p.ctl.Fetcher.Query().WithSearch(""))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Debounced search: let typing settle before hitting the backend.
	m.searchDebounce++
	debounceID := m.searchDebounce
	term := m.searchInput.Value()
	debounce := tea.Tick(searchDebounceDelay, func(time.Time) tea.Msg {
		return searchDebounceMsg{term: term, debounceID: debounceID}
	})
	return m, tea.Batch(cmd, debounce)
}

// handleListKey handles keys on the list screen.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.activePanel()
	q := p.ctl.Fetcher.Query()

	switch msg.String() {
	case "q":
		m.modals.Push(console.Modal{Kind: modalQuitConfirm})
		return m, nil

	case "?":
		m.modals.Push(console.Modal{Kind: modalHelp})
		return m, nil

	case "tab", "g":
		m.active = (m.active + 1) % len(m.panels)
		return m, nil

	case "shift+tab":
		m.active = (m.active + len(m.panels) - 1) % len(m.panels)
		return m, nil

	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
			if p.cursor < p.scrollOffset {
				p.scrollOffset = p.cursor
			}
		}
		return m, nil

	case "down", "j":
		if p.cursor < len(p.rows())-1 {
			p.cursor++
			if visible := m.tableHeight(); p.cursor >= p.scrollOffset+visible {
				p.scrollOffset = p.cursor - visible + 1
			}
		}
		return m, nil

	case " ":
		if id := p.cursorID(); id != "" {
			p.ctl.Selection.Toggle(id)
		}
		return m, nil

	case "S":
		p.ctl.Selection.SelectAll(p.ctl.Fetcher.Page().IDs())
		return m, nil

	case "x":
		p.ctl.Selection.Clear()
		return m, nil

	case "enter":
		return m, m.openDetail(p)

	case "b":
		return m, m.openBulk(p)

	case "/":
		m.searchActive = true
		m.searchInput.SetValue(q.Search)
		m.searchInput.Focus()
		return m, nil

	case "s":
		// Cycle through the resource's sort fields.
		fields := p.res.SortFields()
		next := fields[0]
		for i, f := range fields {
			if f == q.SortField {
				next = fields[(i+1)%len(fields)]
				break
			}
		}
		return m, m.refreshPanel(p, q.WithSort(next, q.SortOrder))

	case "r":
		return m, m.refreshPanel(p, q.WithSort(q.SortField, q.SortOrder.Reverse()))

	case "[":
		if q.Page > 1 {
			return m, m.refreshPanel(p, q.WithPage(q.Page-1))
		}
		return m, nil

	case "]":
		if p.ctl.Fetcher.Page().HasNext {
			return m, m.refreshPanel(p, q.WithPage(q.Page+1))
		}
		return m, nil

	case "R":
		res := p.res
		return m, tea.Batch(
			func() tea.Msg {
				_ = p.ctl.Fetcher.Refresh(context.Background())
				return pageRefreshedMsg{resource: res}
			},
			m.loadOverview(),
		)

	case "esc":
		if q.Search != "" || len(q.Filters) > 0 {
			return m, m.refreshPanel(p, q.Reset())
		}
		return m, nil
	}

	return m, nil
}
