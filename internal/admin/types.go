// Package admin defines the platform's admin-facing domain model: the
// four managed resources, their list and detail shapes, and the client
// interface the console core is wired against.
package admin

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is one subscriber account as shown in list rows.
type User struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Status    string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

func (u User) RowID() string { return u.ID }

// UserDetail is the richer single-entity view.
type UserDetail struct {
	User
	KYCLevel         string
	LastLoginAt      time.Time
	TransactionCount int
	TotalSpent       decimal.Decimal
}

// Transaction is one top-up or bill payment.
type Transaction struct {
	ID        string
	UserID    string
	Service   string
	Amount    decimal.Decimal
	Status    string
	Reference string
	CreatedAt time.Time
}

func (t Transaction) RowID() string { return t.ID }

// TransactionDetail adds processing information to a transaction row.
type TransactionDetail struct {
	Transaction
	Channel       string
	Provider      string
	FailureReason string
	CompletedAt   time.Time
}

// Service is one sellable product (airtime bundle, electricity token,
// TV subscription).
type Service struct {
	ID       string
	Name     string
	Category string
	Provider string
	Fee      decimal.Decimal
	Status   string
}

func (s Service) RowID() string { return s.ID }

// ServiceDetail adds commercial terms to a service row.
type ServiceDetail struct {
	Service
	Commission  decimal.Decimal
	MinAmount   decimal.Decimal
	MaxAmount   decimal.Decimal
	UpdatedAt   time.Time
	Description string
}

// Settlement is one provider payout period.
type Settlement struct {
	ID          string
	Provider    string
	Gross       decimal.Decimal
	Fees        decimal.Decimal
	Net         decimal.Decimal
	Status      string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (s Settlement) RowID() string { return s.ID }

// SettlementDetail adds reconciliation figures to a settlement row.
type SettlementDetail struct {
	Settlement
	TransactionCount int
	DisputedCount    int
	ApprovedBy       string
	ApprovedAt       time.Time
}

// Balance is the ledger's post-mutation view of an account.
type Balance struct {
	AccountID string
	Available decimal.Decimal
}

// Overview is the cross-resource summary shown by the overview command
// and the TUI title bar.
type Overview struct {
	UserCount           int
	ActiveUserCount     int
	TransactionCount    int
	PendingTransactions int
	ServiceCount        int
	SettlementCount     int
	WalletTotal         decimal.Decimal
}
