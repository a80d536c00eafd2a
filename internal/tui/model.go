// Package tui provides the terminal operations console.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// searchDebounceDelay is how long typing in the search bar may pause
// before a query is issued. Variable so tests can shorten it.
var searchDebounceDelay = 300 * time.Millisecond

// flashDuration is how long transient notifications stay visible.
var flashDuration = 4 * time.Second

// Options configures the TUI.
type Options struct {
	Version   string
	PageSize  int
	Intervals map[admin.Resource]time.Duration
}

// Model is the main TUI model following the Elm architecture.
type Model struct {
	client admin.Client
	bus    *console.Bus
	events <-chan console.Event
	guard  *console.WalletGuard

	version string

	panels []*panel
	active int

	// Modal state
	modals console.ModalStack

	// Overview for the title bar
	overview *admin.Overview

	// Search bar state
	searchInput    textinput.Model
	searchActive   bool
	searchDebounce uint64

	// Per-resource poll intervals; zero disables.
	intervals map[admin.Resource]time.Duration

	// Request tracking for detail loads
	detailRequestID uint64

	// Session state: once the backend rejects the token, polling stops
	// and a persistent banner is shown.
	sessionExpired bool

	flashMessage   string
	flashExpiresAt time.Time

	width  int
	height int

	quitting bool
}

// New creates a new TUI model.
func New(client admin.Client, opts Options) Model {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = console.DefaultPageSize
	}

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 120
	ti.Width = 40

	bus := console.NewBus()
	intervals := opts.Intervals
	if intervals == nil {
		intervals = map[admin.Resource]time.Duration{}
	}

	return Model{
		client:      client,
		bus:         bus,
		events:      bus.Subscribe(),
		guard:       console.NewWalletGuard(clientLedger{client}),
		version:     opts.Version,
		panels:      newPanels(client, bus, pageSize),
		searchInput: ti,
		intervals:   intervals,
		width:       100,
		height:      30,
	}
}

// clientLedger adapts the admin client to the wallet guard.
type clientLedger struct {
	client admin.Client
}

func (l clientLedger) Credit(ctx context.Context, m console.Mutation) (decimal.Decimal, error) {
	return l.client.Credit(ctx, m)
}

func (l clientLedger) Debit(ctx context.Context, m console.Mutation) (decimal.Decimal, error) {
	return l.client.Debit(ctx, m)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadOverview(),
		m.listenBus(),
	}
	for _, p := range m.panels {
		if cmd := m.refreshPanel(p, p.ctl.Fetcher.Query()); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if cmd := m.pollTick(p.res); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// pageRefreshedMsg is sent after a fetcher commits (or discards) a load.
type pageRefreshedMsg struct {
	resource admin.Resource
}

// overviewLoadedMsg is sent when the overview summary is loaded.
type overviewLoadedMsg struct {
	overview *admin.Overview
	err      error
}

// detailLoadedMsg is sent when an entity detail is loaded. For users it
// also carries the typed balance so the ledger form never re-parses
// rendered text.
type detailLoadedMsg struct {
	resource  admin.Resource
	id        string
	lines     []string
	name      string
	balance   decimal.Decimal
	err       error
	requestID uint64
}

// bulkDoneMsg is sent when a bulk dispatch finishes.
type bulkDoneMsg struct {
	resource admin.Resource
	action   console.Action
	result   console.BulkResult
	err      error
}

// ledgerDoneMsg is sent when a wallet mutation finishes.
type ledgerDoneMsg struct {
	accountID string
	direction console.Direction
	balance   decimal.Decimal
	err       error
}

// pollTickMsg fires a background refresh for one resource.
type pollTickMsg struct {
	resource admin.Resource
}

// searchDebounceMsg commits a typed search term after the debounce delay.
type searchDebounceMsg struct {
	term       string
	debounceID uint64
}

// busEventMsg wraps a console event delivered over the bus.
type busEventMsg struct {
	event console.Event
}

// flashClearMsg clears the flash message after its timeout.
type flashClearMsg struct{}

// refreshPanel starts a load for q on p's fetcher. The token handed out
// by Begin makes responses that arrive after a newer request harmless.
func (m Model) refreshPanel(p *panel, q console.Query) tea.Cmd {
	token, ok := p.ctl.Fetcher.Begin(q)
	if !ok {
		return nil
	}
	res := p.res
	return func() tea.Msg {
		p.ctl.Fetcher.Do(context.Background(), token)
		return pageRefreshedMsg{resource: res}
	}
}

// loadOverview fetches the cross-resource summary.
func (m Model) loadOverview() tea.Cmd {
	return func() tea.Msg {
		ov, err := m.client.Overview(context.Background())
		return overviewLoadedMsg{overview: ov, err: err}
	}
}

// pollTick schedules the next background refresh for res, if polling is
// enabled for it.
func (m Model) pollTick(res admin.Resource) tea.Cmd {
	interval := m.intervals[res]
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{resource: res}
	})
}

// listenBus waits for the next console event.
func (m Model) listenBus() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{event: ev}
	}
}

// loadDetail fetches one entity for the detail modal.
func (m Model) loadDetail(res admin.Resource, id string, requestID uint64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		var (
			lines   []string
			name    string
			balance decimal.Decimal
			err     error
		)
		switch res {
		case admin.ResourceUsers:
			var d *admin.UserDetail
			if d, err = client.GetUser(ctx, id); err == nil {
				lines = userDetailLines(d)
				name = d.Name
				balance = d.Balance
			}
		case admin.ResourceTransactions:
			var d *admin.TransactionDetail
			if d, err = client.GetTransaction(ctx, id); err == nil {
				lines = transactionDetailLines(d)
			}
		case admin.ResourceServices:
			var d *admin.ServiceDetail
			if d, err = client.GetService(ctx, id); err == nil {
				lines = serviceDetailLines(d)
			}
		case admin.ResourceSettlements:
			var d *admin.SettlementDetail
			if d, err = client.GetSettlement(ctx, id); err == nil {
				lines = settlementDetailLines(d)
			}
		}
		return detailLoadedMsg{resource: res, id: id, lines: lines, name: name, balance: balance, err: err, requestID: requestID}
	}
}

// dispatchBulk runs the pending bulk action against the panel's
// selection.
func (m Model) dispatchBulk(p *panel, action console.Action, reason string) tea.Cmd {
	return func() tea.Msg {
		res, err := p.ctl.Dispatch(context.Background(), action, reason, true)
		return bulkDoneMsg{resource: p.res, action: action, result: res, err: err}
	}
}

// submitLedger runs a wallet mutation through the guard. currentBalance
// is the server balance shown in the form, used for the client-side
// overdraft check.
func (m Model) submitLedger(mut console.Mutation, currentBalance decimal.Decimal) tea.Cmd {
	guard := m.guard
	return func() tea.Msg {
		balance, err := guard.Submit(context.Background(), mut, currentBalance)
		return ledgerDoneMsg{accountID: mut.AccountID, direction: mut.Direction, balance: balance, err: err}
	}
}

// flash shows a transient notification.
func (m *Model) flash(text string) tea.Cmd {
	m.flashMessage = text
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

// activePanel returns the currently focused panel.
func (m *Model) activePanel() *panel {
	return m.panels[m.active]
}

// panelFor returns the panel managing res.
func (m *Model) panelFor(res admin.Resource) *panel {
	for _, p := range m.panels {
		if p.res == res {
			return p
		}
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pageRefreshedMsg:
		if p := m.panelFor(msg.resource); p != nil {
			p.clampCursor()
		}
		return m, nil

	case overviewLoadedMsg:
		if msg.err == nil {
			m.overview = msg.overview
		}
		return m, nil

	case detailLoadedMsg:
		return m.handleDetailLoaded(msg)

	case bulkDoneMsg:
		return m.handleBulkDone(msg)

	case ledgerDoneMsg:
		return m.handleLedgerDone(msg)

	case pollTickMsg:
		return m.handlePollTick(msg)

	case searchDebounceMsg:
		if msg.debounceID != m.searchDebounce {
			return m, nil
		}
		p := m.activePanel()
		return m, m.refreshPanel(p, p.ctl.Fetcher.Query().WithSearch(msg.term))

	case busEventMsg:
		return m.handleBusEvent(msg)

	case flashClearMsg:
		if time.Now().After(m.flashExpiresAt) {
			m.flashMessage = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handlePollTick(msg pollTickMsg) (tea.Model, tea.Cmd) {
	if m.sessionExpired {
		return m, nil
	}
	p := m.panelFor(msg.resource)
	if p == nil {
		return m, nil
	}
	// Refresh re-runs the current query; an in-flight load means this
	// tick is skipped entirely rather than queued.
	res := msg.resource
	refresh := func() tea.Msg {
		_ = p.ctl.Fetcher.Refresh(context.Background())
		return pageRefreshedMsg{resource: res}
	}
	return m, tea.Batch(refresh, m.pollTick(res))
}

func (m Model) handleBusEvent(msg busEventMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenBus()}
	switch msg.event.(type) {
	case console.EventSessionExpired:
		m.sessionExpired = true
	case console.EventResourceMutated:
		cmds = append(cmds, m.loadOverview())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleDetailLoaded(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.detailRequestID {
		return m, nil
	}
	cur, ok := m.modals.Current()
	if !ok || cur.Kind != modalDetail {
		return m, nil
	}
	d := cur.Payload.(*detailModal)
	if d.id != msg.id {
		return m, nil
	}
	d.loading = false
	d.err = msg.err
	d.lines = msg.lines
	d.name = msg.name
	d.balance = msg.balance
	return m, nil
}

func (m Model) handleBulkDone(msg bulkDoneMsg) (tea.Model, tea.Cmd) {
	// Drop the confirm modal if it is still up.
	if cur, ok := m.modals.Current(); ok && cur.Kind == modalBulkConfirm {
		m.modals.Pop()
	}

	var text string
	switch {
	case msg.err != nil:
		text = fmt.Sprintf("%s failed: %v", msg.action.Label, msg.err)
	case msg.result.Partial():
		var parts []string
		for id, reason := range msg.result.PerItemErrors {
			parts = append(parts, fmt.Sprintf("%s: %s", id, reason))
		}
		text = fmt.Sprintf("%s: %d ok, %d failed\n%s",
			msg.action.Label, msg.result.SuccessCount, msg.result.ErrorCount,
			strings.Join(parts, "\n"))
	default:
		text = fmt.Sprintf("%s: %d ok", msg.action.Label, msg.result.SuccessCount)
	}
	m.modals.Push(console.Modal{Kind: modalResult, Payload: &resultModal{title: msg.action.Label, text: text}})
	return m, tea.Batch(m.loadOverview(), func() tea.Msg { return pageRefreshedMsg{resource: msg.resource} })
}

func (m Model) handleLedgerDone(msg ledgerDoneMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	cur, ok := m.modals.Current()
	if ok && cur.Kind == modalLedger {
		lm := cur.Payload.(*ledgerModal)
		lm.submitting = false
		if msg.err != nil {
			lm.errText = msg.err.Error()
			return m, nil
		}
		// A submit resolves the form. The restored detail still carries
		// the pre-mutation balance, so reload it before the row and the
		// dialog can disagree, or a follow-up debit reads a stale figure.
		if parent, hasParent, refresh := m.modals.Resolve(true); hasParent && refresh && parent.Kind == modalDetail {
			d := parent.Payload.(*detailModal)
			d.loading = true
			m.detailRequestID++
			cmds = append(cmds, m.loadDetail(d.resource, d.id, m.detailRequestID))
		}
	} else if msg.err != nil {
		return m, m.flash(fmt.Sprintf("wallet mutation failed: %v", msg.err))
	}

	verb := "credited"
	if msg.direction == console.Debit {
		verb = "debited"
	}
	cmds = append(cmds, m.flash(fmt.Sprintf("%s %s, new balance %s", msg.accountID, verb, msg.balance.StringFixed(2))))

	users := m.panelFor(admin.ResourceUsers)
	cmds = append(cmds, func() tea.Msg {
		_ = users.ctl.Fetcher.Refresh(context.Background())
		return pageRefreshedMsg{resource: admin.ResourceUsers}
	})
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}
