package admin

import (
	"github.com/veloxpay/payops/internal/console"
)

// Column sets plug each resource's rendering into the shared table
// writers (CLI) and list renderer (TUI). Widths are minimums; renderers
// may stretch the first text column.

const timeColumn = "2006-01-02 15:04"

// UserColumns returns the user list columns.
func UserColumns() []console.Column[User] {
	return []console.Column[User]{
		{Title: "ID", Width: 10, Value: func(u User) string { return u.ID }},
		{Title: "Name", Width: 22, Value: func(u User) string { return u.Name }},
		{Title: "Phone", Width: 14, Value: func(u User) string { return u.Phone }},
		{Title: "Status", Width: 10, Value: func(u User) string { return u.Status }},
		{Title: "Balance", Width: 12, Value: func(u User) string { return u.Balance.StringFixed(2) }},
		{Title: "Created", Width: 16, Value: func(u User) string { return u.CreatedAt.Format(timeColumn) }},
	}
}

// TransactionColumns returns the transaction list columns.
func TransactionColumns() []console.Column[Transaction] {
	return []console.Column[Transaction]{
		{Title: "ID", Width: 12, Value: func(t Transaction) string { return t.ID }},
		{Title: "User", Width: 10, Value: func(t Transaction) string { return t.UserID }},
		{Title: "Service", Width: 16, Value: func(t Transaction) string { return t.Service }},
		{Title: "Amount", Width: 12, Value: func(t Transaction) string { return t.Amount.StringFixed(2) }},
		{Title: "Status", Width: 10, Value: func(t Transaction) string { return t.Status }},
		{Title: "Created", Width: 16, Value: func(t Transaction) string { return t.CreatedAt.Format(timeColumn) }},
	}
}

// ServiceColumns returns the service list columns.
func ServiceColumns() []console.Column[Service] {
	return []console.Column[Service]{
		{Title: "ID", Width: 10, Value: func(s Service) string { return s.ID }},
		{Title: "Name", Width: 24, Value: func(s Service) string { return s.Name }},
		{Title: "Category", Width: 12, Value: func(s Service) string { return s.Category }},
		{Title: "Provider", Width: 12, Value: func(s Service) string { return s.Provider }},
		{Title: "Fee", Width: 8, Value: func(s Service) string { return s.Fee.StringFixed(2) }},
		{Title: "Status", Width: 10, Value: func(s Service) string { return s.Status }},
	}
}

// SettlementColumns returns the settlement list columns.
func SettlementColumns() []console.Column[Settlement] {
	return []console.Column[Settlement]{
		{Title: "ID", Width: 12, Value: func(s Settlement) string { return s.ID }},
		{Title: "Provider", Width: 12, Value: func(s Settlement) string { return s.Provider }},
		{Title: "Gross", Width: 12, Value: func(s Settlement) string { return s.Gross.StringFixed(2) }},
		{Title: "Net", Width: 12, Value: func(s Settlement) string { return s.Net.StringFixed(2) }},
		{Title: "Status", Width: 10, Value: func(s Settlement) string { return s.Status }},
		{Title: "Period end", Width: 16, Value: func(s Settlement) string { return s.PeriodEnd.Format("2006-01-02") }},
	}
}
