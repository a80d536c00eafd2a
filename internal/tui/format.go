package tui

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/veloxpay/payops/internal/admin"
)

const detailTime = "2006-01-02 15:04:05"

// cell truncates or pads s to exactly width columns, rune-width aware.
func cell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func fmtDetailTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(detailTime)
}

func userDetailLines(d *admin.UserDetail) []string {
	return []string{
		fmt.Sprintf("Name:          %s", d.Name),
		fmt.Sprintf("Phone:         %s", d.Phone),
		fmt.Sprintf("Email:         %s", d.Email),
		fmt.Sprintf("Status:        %s", d.Status),
		fmt.Sprintf("KYC level:     %s", d.KYCLevel),
		fmt.Sprintf("Balance:       %s", d.Balance.StringFixed(2)),
		fmt.Sprintf("Total spent:   %s", d.TotalSpent.StringFixed(2)),
		fmt.Sprintf("Transactions:  %d", d.TransactionCount),
		fmt.Sprintf("Last login:    %s", fmtDetailTime(d.LastLoginAt)),
		fmt.Sprintf("Created:       %s", fmtDetailTime(d.CreatedAt)),
		"",
		"c credit wallet  d debit wallet",
	}
}

func transactionDetailLines(d *admin.TransactionDetail) []string {
	lines := []string{
		fmt.Sprintf("User:       %s", d.UserID),
		fmt.Sprintf("Service:    %s", d.Service),
		fmt.Sprintf("Amount:     %s", d.Amount.StringFixed(2)),
		fmt.Sprintf("Status:     %s", d.Status),
		fmt.Sprintf("Reference:  %s", d.Reference),
		fmt.Sprintf("Channel:    %s", d.Channel),
		fmt.Sprintf("Provider:   %s", d.Provider),
		fmt.Sprintf("Created:    %s", fmtDetailTime(d.CreatedAt)),
		fmt.Sprintf("Completed:  %s", fmtDetailTime(d.CompletedAt)),
	}
	if d.FailureReason != "" {
		lines = append(lines, fmt.Sprintf("Failure:    %s", d.FailureReason))
	}
	return lines
}

func serviceDetailLines(d *admin.ServiceDetail) []string {
	return []string{
		fmt.Sprintf("Name:        %s", d.Name),
		fmt.Sprintf("Category:    %s", d.Category),
		fmt.Sprintf("Provider:    %s", d.Provider),
		fmt.Sprintf("Status:      %s", d.Status),
		fmt.Sprintf("Fee:         %s", d.Fee.StringFixed(2)),
		fmt.Sprintf("Commission:  %s", d.Commission.String()),
		fmt.Sprintf("Min amount:  %s", d.MinAmount.StringFixed(2)),
		fmt.Sprintf("Max amount:  %s", d.MaxAmount.StringFixed(2)),
		fmt.Sprintf("Updated:     %s", fmtDetailTime(d.UpdatedAt)),
		fmt.Sprintf("Description: %s", d.Description),
	}
}

func settlementDetailLines(d *admin.SettlementDetail) []string {
	lines := []string{
		fmt.Sprintf("Provider:      %s", d.Provider),
		fmt.Sprintf("Status:        %s", d.Status),
		fmt.Sprintf("Gross:         %s", d.Gross.StringFixed(2)),
		fmt.Sprintf("Fees:          %s", d.Fees.StringFixed(2)),
		fmt.Sprintf("Net:           %s", d.Net.StringFixed(2)),
		fmt.Sprintf("Transactions:  %d", d.TransactionCount),
		fmt.Sprintf("Disputed:      %d", d.DisputedCount),
		fmt.Sprintf("Period:        %s to %s",
			d.PeriodStart.Format("2006-01-02"), d.PeriodEnd.Format("2006-01-02")),
	}
	if d.ApprovedBy != "" {
		lines = append(lines,
			fmt.Sprintf("Approved by:   %s", d.ApprovedBy),
			fmt.Sprintf("Approved at:   %s", fmtDetailTime(d.ApprovedAt)))
	}
	return lines
}
