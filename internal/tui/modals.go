package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// Modal kinds. The stack owns ordering; these name what each layer is.
const (
	modalDetail      = "detail"
	modalBulkPick    = "bulk-pick"
	modalBulkReason  = "bulk-reason"
	modalBulkConfirm = "bulk-confirm"
	modalLedger      = "ledger"
	modalResult      = "result"
	modalQuitConfirm = "quit-confirm"
	modalHelp        = "help"
)

// detailModal shows one entity.
type detailModal struct {
	resource admin.Resource
	id       string
	lines    []string
	loading  bool
	err      error

	// User detail only, for the ledger form.
	name    string
	balance decimal.Decimal
}

// bulkPickModal selects which action to run against the selection.
type bulkPickModal struct {
	actions []console.Action
	cursor  int
	count   int
}

// bulkReasonModal collects the mandatory reason for an action.
type bulkReasonModal struct {
	action console.Action
	count  int
	input  textinput.Model
}

// bulkConfirmModal is the explicit yes/no gate before a destructive
// action reaches the network.
type bulkConfirmModal struct {
	action     console.Action
	reason     string
	count      int
	dispatched bool
}

// ledgerModal is the credit/debit form on a user.
type ledgerModal struct {
	direction console.Direction
	accountID string
	name      string
	balance   decimal.Decimal

	amount     textinput.Model
	reason     textinput.Model
	focus      int // 0 = amount, 1 = reason
	errText    string
	submitting bool
}

// resultModal shows a final outcome message.
type resultModal struct {
	title string
	text  string
}

// openDetail pushes the detail modal and starts its load.
func (m *Model) openDetail(p *panel) tea.Cmd {
	id := p.cursorID()
	if id == "" {
		return nil
	}
	m.detailRequestID++
	m.modals.Push(console.Modal{Kind: modalDetail, Payload: &detailModal{
		resource: p.res,
		id:       id,
		loading:  true,
	}})
	return m.loadDetail(p.res, id, m.detailRequestID)
}

// openBulk pushes the action picker for the current selection.
func (m *Model) openBulk(p *panel) tea.Cmd {
	if p.ctl.Selection.Len() == 0 {
		return m.flash("nothing selected")
	}
	m.modals.Push(console.Modal{Kind: modalBulkPick, Payload: &bulkPickModal{
		actions: p.ctl.Actions,
		count:   p.ctl.Selection.Len(),
	}})
	return nil
}

// openLedger pushes the credit/debit form for the user under the cursor
// of the users panel, seeded with the server balance from the open
// detail when available.
func (m *Model) openLedger(dir console.Direction, accountID, name string, balance decimal.Decimal) {
	amount := textinput.New()
	amount.Placeholder = "amount"
	amount.CharLimit = 16
	amount.Width = 20
	amount.Focus()

	reason := textinput.New()
	reason.Placeholder = "reason"
	reason.CharLimit = 120
	reason.Width = 40

	m.modals.Push(console.Modal{Kind: modalLedger, Payload: &ledgerModal{
		direction: dir,
		accountID: accountID,
		name:      name,
		balance:   balance,
		amount:    amount,
		reason:    reason,
	}})
}

// handleModalKey routes a key press to the topmost modal.
func (m Model) handleModalKey(msg tea.KeyMsg, cur console.Modal) (tea.Model, tea.Cmd) {
	switch cur.Kind {
	case modalDetail:
		return m.handleDetailKey(msg, cur.Payload.(*detailModal))
	case modalBulkPick:
		return m.handleBulkPickKey(msg, cur.Payload.(*bulkPickModal))
	case modalBulkReason:
		return m.handleBulkReasonKey(msg, cur.Payload.(*bulkReasonModal))
	case modalBulkConfirm:
		return m.handleBulkConfirmKey(msg, cur.Payload.(*bulkConfirmModal))
	case modalLedger:
		return m.handleLedgerKey(msg, cur.Payload.(*ledgerModal))
	case modalResult, modalHelp:
		switch msg.String() {
		case "enter", "esc", "q":
			m.modals.Resolve(cur.Kind == modalResult)
		}
		return m, nil
	case modalQuitConfirm:
		switch msg.String() {
		case "y", "enter":
			m.quitting = true
			m.bus.Close()
			for _, p := range m.panels {
				p.ctl.Close()
			}
			return m, tea.Quit
		case "n", "esc":
			m.modals.Pop()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg, d *detailModal) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.modals.Pop()
		return m, nil
	case "c", "d":
		// Wallet mutations only exist on user accounts.
		if d.resource != admin.ResourceUsers || d.loading || d.err != nil {
			return m, nil
		}
		dir := console.Credit
		if msg.String() == "d" {
			dir = console.Debit
		}
		m.openLedger(dir, d.id, d.name, d.balance)
		return m, nil
	}
	return m, nil
}

func (m Model) handleBulkPickKey(msg tea.KeyMsg, b *bulkPickModal) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.modals.Pop()
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.actions)-1 {
			b.cursor++
		}
	case "enter":
		action := b.actions[b.cursor]
		if action.NeedsReason {
			input := textinput.New()
			input.Placeholder = "reason"
			input.CharLimit = 120
			input.Width = 40
			input.Focus()
			m.modals.Push(console.Modal{Kind: modalBulkReason, Payload: &bulkReasonModal{
				action: action,
				count:  b.count,
				input:  input,
			}})
			return m, nil
		}
		return m.pushBulkConfirm(action, "", b.count)
	}
	return m, nil
}

func (m Model) handleBulkReasonKey(msg tea.KeyMsg, b *bulkReasonModal) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modals.Pop()
		return m, nil
	case "enter":
		reason := b.input.Value()
		if reason == "" {
			return m, nil
		}
		return m.pushBulkConfirm(b.action, reason, b.count)
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return m, cmd
}

// pushBulkConfirm either asks for confirmation (destructive actions) or
// dispatches straight away.
func (m Model) pushBulkConfirm(action console.Action, reason string, count int) (tea.Model, tea.Cmd) {
	if action.Destructive {
		m.modals.Push(console.Modal{Kind: modalBulkConfirm, Payload: &bulkConfirmModal{
			action: action,
			reason: reason,
			count:  count,
		}})
		return m, nil
	}
	return m.startDispatch(action, reason)
}

func (m Model) handleBulkConfirmKey(msg tea.KeyMsg, b *bulkConfirmModal) (tea.Model, tea.Cmd) {
	if b.dispatched {
		return m, nil
	}
	switch msg.String() {
	case "y", "enter":
		b.dispatched = true
		return m.startDispatch(b.action, b.reason)
	case "n", "esc":
		m.modals.Pop()
	}
	return m, nil
}

// startDispatch drops intermediate modal layers and fires the action.
func (m Model) startDispatch(action console.Action, reason string) (tea.Model, tea.Cmd) {
	for {
		cur, ok := m.modals.Current()
		if !ok {
			break
		}
		if cur.Kind != modalBulkPick && cur.Kind != modalBulkReason && cur.Kind != modalBulkConfirm {
			break
		}
		m.modals.Pop()
	}
	p := m.activePanel()
	// The confirm layer stays implicit here: passing confirmed=true is
	// only done after the modal flow above has gated destructive actions.
	m.modals.Push(console.Modal{Kind: modalBulkConfirm, Payload: &bulkConfirmModal{
		action:     action,
		reason:     reason,
		count:      p.ctl.Selection.Len(),
		dispatched: true,
	}})
	return m, m.dispatchBulk(p, action, reason)
}

func (m Model) handleLedgerKey(msg tea.KeyMsg, l *ledgerModal) (tea.Model, tea.Cmd) {
	if l.submitting {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.modals.Pop()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		l.focus = 1 - l.focus
		if l.focus == 0 {
			l.amount.Focus()
			l.reason.Blur()
		} else {
			l.reason.Focus()
			l.amount.Blur()
		}
		return m, nil
	case "enter":
		mut, err := console.ParseMutation(l.accountID, l.direction, l.amount.Value(), l.reason.Value(), "")
		if err != nil {
			l.errText = err.Error()
			return m, nil
		}
		l.errText = ""
		l.submitting = true
		return m, m.submitLedger(mut, l.balance)
	}

	var cmd tea.Cmd
	if l.focus == 0 {
		l.amount, cmd = l.amount.Update(msg)
	} else {
		l.reason, cmd = l.reason.Update(msg)
	}
	return m, cmd
}
