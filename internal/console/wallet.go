package console

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the side of a wallet mutation.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Mutation is one credit or debit against an account's wallet. It is
// built when the operator submits the form and discarded after the call
// returns; a failed mutation is never retried automatically.
type Mutation struct {
	AccountID string
	Direction Direction
	Amount    decimal.Decimal
	Reason    string
	Reference string
}

// Ledger is the remote ledger endpoint consumed by the guard.
type Ledger interface {
	// Credit and Debit apply the mutation and return the account's
	// post-mutation balance as computed by the server.
	Credit(ctx context.Context, m Mutation) (decimal.Decimal, error)
	Debit(ctx context.Context, m Mutation) (decimal.Decimal, error)
}

// ParseMutation validates raw form input into a Mutation. The amount must
// parse as a positive number; a missing reference gets a generated one so
// the ledger can de-duplicate replays.
func ParseMutation(accountID string, dir Direction, amount, reason, reference string) (Mutation, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Mutation{}, &ValidationError{Field: "amount", Reason: "must be a number"}
	}
	m := Mutation{
		AccountID: accountID,
		Direction: dir,
		Amount:    amt,
		Reason:    strings.TrimSpace(reason),
		Reference: strings.TrimSpace(reference),
	}
	if m.Reference == "" {
		m.Reference = uuid.NewString()
	}
	return m, nil
}

// WalletGuard validates wallet mutations before they reach the network
// and blocks duplicate submission while one is in flight. Mutations are
// not cancellable once submitted and no client-side rollback exists, so
// the guard is strict about what it lets through.
type WalletGuard struct {
	ledger Ledger

	mu         sync.Mutex
	submitting bool
}

// NewWalletGuard returns a guard over the given ledger endpoint.
func NewWalletGuard(ledger Ledger) *WalletGuard {
	return &WalletGuard{ledger: ledger}
}

// Submitting reports whether a mutation is currently in flight.
func (g *WalletGuard) Submitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitting
}

// Submit validates m against currentBalance and, if it passes, issues it
// to the ledger. Validation stops at the first violation and nothing is
// sent. The returned balance is the server's post-mutation figure: the
// caller displays that, never currentBalance ± amount, so server-side
// rounding or fees can't drift the view.
func (g *WalletGuard) Submit(ctx context.Context, m Mutation, currentBalance decimal.Decimal) (decimal.Decimal, error) {
	if err := g.validate(m, currentBalance); err != nil {
		return decimal.Zero, err
	}

	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return decimal.Zero, &ValidationError{Field: "submit", Reason: "a mutation is already in flight"}
	}
	g.submitting = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.submitting = false
		g.mu.Unlock()
	}()

	switch m.Direction {
	case Credit:
		return g.ledger.Credit(ctx, m)
	case Debit:
		return g.ledger.Debit(ctx, m)
	default:
		return decimal.Zero, &ValidationError{Field: "direction", Reason: "must be credit or debit"}
	}
}

func (g *WalletGuard) validate(m Mutation, currentBalance decimal.Decimal) error {
	if !m.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if m.Reason == "" {
		return &ValidationError{Field: "reason", Reason: "is required"}
	}
	if m.Direction == Debit && m.Amount.GreaterThan(currentBalance) {
		return &ValidationError{
			Field:  "amount",
			Reason: "insufficient balance: debit " + m.Amount.String() + " exceeds " + currentBalance.String(),
		}
	}
	return nil
}
