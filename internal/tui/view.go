package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veloxpay/payops/internal/console"
)

// Monochrome theme, adaptive for light and dark terminals.
var (
	bgBase   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}
	bgCursor = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"}

	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	cursorRowStyle = lipgloss.NewStyle().
			Background(bgCursor)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	normalRowStyle = lipgloss.NewStyle().
			Background(bgBase)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#990000", Dark: "#ff6666"}).
			Background(bgBase)

	flashStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#996600", Dark: "#ffcc00"}).
			Background(bgBase)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Background(bgBase)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true)
)

// tableHeight is the number of data rows that fit between chrome lines.
func (m Model) tableHeight() int {
	// title + tabs + header + footer + search/flash line
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

// render assembles the full screen.
func (m Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString(m.renderFooter())

	screen := b.String()
	if cur, ok := m.modals.Current(); ok {
		return m.overlayModal(screen, cur)
	}
	return screen
}

func (m Model) renderTitle() string {
	title := "payops"
	if m.version != "" {
		title += " " + m.version
	}
	var summary string
	if m.overview != nil {
		summary = fmt.Sprintf("  %d users (%d active) · %d txns (%d pending) · wallet %s",
			m.overview.UserCount, m.overview.ActiveUserCount,
			m.overview.TransactionCount, m.overview.PendingTransactions,
			m.overview.WalletTotal.StringFixed(2))
	}
	line := title + summary
	if m.sessionExpired {
		line += errorStyle.Render("  SESSION EXPIRED - restart with a fresh token")
	}
	return titleBarStyle.Width(m.width).Render(line)
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, p := range m.panels {
		label := p.res.Title()
		if n := p.ctl.Selection.Len(); n > 0 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderTable() string {
	p := m.activePanel()
	var b strings.Builder

	// Header
	var hdr strings.Builder
	hdr.WriteString("   ")
	for i, title := range p.titles {
		hdr.WriteString(cell(title, p.widths[i]))
		hdr.WriteString("  ")
	}
	b.WriteString(tableHeaderStyle.Render(hdr.String()))
	b.WriteString("\n")

	rows := p.rows()
	if len(rows) == 0 {
		if p.ctl.Fetcher.Loading() {
			b.WriteString("  loading…\n")
		} else if err := p.ctl.Fetcher.Err(); err != nil {
			b.WriteString(errorStyle.Render("  " + err.Error()))
			b.WriteString("\n")
		} else {
			b.WriteString("  no results\n")
		}
		return b.String()
	}

	visible := m.tableHeight()
	end := p.scrollOffset + visible
	if end > len(rows) {
		end = len(rows)
	}
	for i := p.scrollOffset; i < end; i++ {
		row := rows[i]

		marker := "  "
		if p.ctl.Selection.IsSelected(row.id) {
			marker = "✓ "
		}

		var line strings.Builder
		line.WriteString(" ")
		line.WriteString(marker)
		for j, c := range row.cells {
			line.WriteString(cell(c, p.widths[j]))
			line.WriteString("  ")
		}

		style := normalRowStyle
		if p.ctl.Selection.IsSelected(row.id) {
			style = selectedRowStyle
		}
		if i == p.cursor {
			style = cursorRowStyle
		}
		b.WriteString(style.Render(line.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	p := m.activePanel()
	q := p.ctl.Fetcher.Query()
	pg := p.ctl.Fetcher.Page()

	var parts []string
	parts = append(parts, fmt.Sprintf("page %d/%d (%d total)", pg.Page, max(pg.TotalPages, 1), pg.TotalCount))
	parts = append(parts, fmt.Sprintf("sort %s %s", q.SortField, q.SortOrder))
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", q.Search))
	}
	if p.ctl.Fetcher.Loading() {
		parts = append(parts, "loading…")
	}
	if err := p.ctl.Fetcher.Err(); err != nil && len(p.rows()) > 0 {
		parts = append(parts, errorStyle.Render(err.Error()))
	}

	line := strings.Join(parts, " · ")

	if m.searchActive {
		line = "/" + m.searchInput.View()
	} else if m.flashMessage != "" {
		line += "  " + flashStyle.Render(m.flashMessage)
	}

	help := "tab panels · space select · S all · b bulk · enter detail · / search · s sort · r reverse · [ ] page · R refresh · q quit"
	return footerStyle.Width(m.width).Render(line) + "\n" + footerStyle.Width(m.width).Render(help)
}

// overlayModal renders the topmost modal centered over the screen.
func (m Model) overlayModal(screen string, cur console.Modal) string {
	content := m.renderModal(cur)
	box := modalStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderModal(cur console.Modal) string {
	switch cur.Kind {
	case modalDetail:
		d := cur.Payload.(*detailModal)
		title := fmt.Sprintf("%s %s", d.resource.Title(), d.id)
		switch {
		case d.loading:
			return modalTitleStyle.Render(title) + "\n\nloading…"
		case d.err != nil:
			return modalTitleStyle.Render(title) + "\n\n" + errorStyle.Render(d.err.Error())
		default:
			return modalTitleStyle.Render(title) + "\n\n" + strings.Join(d.lines, "\n")
		}

	case modalBulkPick:
		b := cur.Payload.(*bulkPickModal)
		var sb strings.Builder
		sb.WriteString(modalTitleStyle.Render(fmt.Sprintf("Bulk action (%d selected)", b.count)))
		sb.WriteString("\n\n")
		for i, a := range b.actions {
			prefix := "  "
			if i == b.cursor {
				prefix = "> "
			}
			label := a.Label
			if a.Destructive {
				label += " !"
			}
			sb.WriteString(prefix + label + "\n")
		}
		sb.WriteString("\nenter run · esc cancel")
		return sb.String()

	case modalBulkReason:
		b := cur.Payload.(*bulkReasonModal)
		return modalTitleStyle.Render(fmt.Sprintf("%s (%d selected)", b.action.Label, b.count)) +
			"\n\nReason: " + b.input.View() +
			"\n\nenter continue · esc cancel"

	case modalBulkConfirm:
		b := cur.Payload.(*bulkConfirmModal)
		if b.dispatched {
			return modalTitleStyle.Render(b.action.Label) + "\n\nworking…"
		}
		var sb strings.Builder
		sb.WriteString(modalTitleStyle.Render(fmt.Sprintf("Confirm %s", b.action.Label)))
		sb.WriteString(fmt.Sprintf("\n\nThis will %s %d item(s).", b.action.Name, b.count))
		if b.reason != "" {
			sb.WriteString(fmt.Sprintf("\nReason: %s", b.reason))
		}
		sb.WriteString("\n\ny confirm · n cancel")
		return sb.String()

	case modalLedger:
		l := cur.Payload.(*ledgerModal)
		verb := "Credit"
		if l.direction == console.Debit {
			verb = "Debit"
		}
		var sb strings.Builder
		sb.WriteString(modalTitleStyle.Render(fmt.Sprintf("%s %s (%s)", verb, l.accountID, l.name)))
		sb.WriteString(fmt.Sprintf("\n\nBalance: %s", l.balance.StringFixed(2)))
		sb.WriteString("\n\nAmount: " + l.amount.View())
		sb.WriteString("\nReason: " + l.reason.View())
		if l.errText != "" {
			sb.WriteString("\n\n" + errorStyle.Render(l.errText))
		}
		if l.submitting {
			sb.WriteString("\n\nsubmitting…")
		} else {
			sb.WriteString("\n\ntab switch field · enter submit · esc cancel")
		}
		return sb.String()

	case modalResult:
		r := cur.Payload.(*resultModal)
		return modalTitleStyle.Render(r.title) + "\n\n" + r.text + "\n\nenter close"

	case modalQuitConfirm:
		return modalTitleStyle.Render("Quit payops?") + "\n\ny quit · n stay"

	case modalHelp:
		return modalTitleStyle.Render("Keys") + "\n\n" + strings.Join([]string{
			"tab / g        next panel",
			"space          toggle selection",
			"S              select all visible",
			"x              clear selection",
			"enter          open detail",
			"b              bulk action on selection",
			"c / d          credit / debit (user detail)",
			"/              search",
			"s              cycle sort field",
			"r              reverse sort",
			"[ ]            previous / next page",
			"R              refresh",
			"esc            reset search and filters",
			"q              quit",
		}, "\n") + "\n\nesc close"
	}
	return ""
}
