package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/admin"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Show one entity in full",
	Long: `Show the full detail view of one entity.

Examples:
  payops show users usr-0042
  payops show transactions txn-0108 --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveResource(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		id := args[1]

		var detail any
		switch r {
		case admin.ResourceUsers:
			detail, err = client.GetUser(ctx, id)
		case admin.ResourceTransactions:
			detail, err = client.GetTransaction(ctx, id)
		case admin.ResourceServices:
			detail, err = client.GetService(ctx, id)
		case admin.ResourceSettlements:
			detail, err = client.GetSettlement(ctx, id)
		}
		if err != nil {
			return eris.Wrapf(err, "show %s %s", r, id)
		}

		if showJSON {
			return json.NewEncoder(os.Stdout).Encode(detail)
		}
		printDetail(detail)
		return nil
	},
}

func printDetail(detail any) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch d := detail.(type) {
	case *admin.UserDetail:
		fmt.Fprintf(w, "ID\t%s\n", d.ID)
		fmt.Fprintf(w, "Name\t%s\n", d.Name)
		fmt.Fprintf(w, "Phone\t%s\n", d.Phone)
		fmt.Fprintf(w, "Email\t%s\n", d.Email)
		fmt.Fprintf(w, "Status\t%s\n", d.Status)
		fmt.Fprintf(w, "Balance\t%s\n", d.Balance.StringFixed(2))
		fmt.Fprintf(w, "KYC level\t%s\n", d.KYCLevel)
		fmt.Fprintf(w, "Transactions\t%d\n", d.TransactionCount)
		fmt.Fprintf(w, "Total spent\t%s\n", d.TotalSpent.StringFixed(2))
		fmt.Fprintf(w, "Created\t%s\n", fmtShowTime(d.CreatedAt))
		fmt.Fprintf(w, "Last login\t%s\n", fmtShowTime(d.LastLoginAt))

	case *admin.TransactionDetail:
		fmt.Fprintf(w, "ID\t%s\n", d.ID)
		fmt.Fprintf(w, "User\t%s\n", d.UserID)
		fmt.Fprintf(w, "Service\t%s\n", d.Service)
		fmt.Fprintf(w, "Amount\t%s\n", d.Amount.StringFixed(2))
		fmt.Fprintf(w, "Status\t%s\n", d.Status)
		fmt.Fprintf(w, "Reference\t%s\n", d.Reference)
		fmt.Fprintf(w, "Channel\t%s\n", d.Channel)
		fmt.Fprintf(w, "Provider\t%s\n", d.Provider)
		if d.FailureReason != "" {
			fmt.Fprintf(w, "Failure\t%s\n", d.FailureReason)
		}
		fmt.Fprintf(w, "Created\t%s\n", fmtShowTime(d.CreatedAt))
		fmt.Fprintf(w, "Completed\t%s\n", fmtShowTime(d.CompletedAt))

	case *admin.ServiceDetail:
		fmt.Fprintf(w, "ID\t%s\n", d.ID)
		fmt.Fprintf(w, "Name\t%s\n", d.Name)
		fmt.Fprintf(w, "Category\t%s\n", d.Category)
		fmt.Fprintf(w, "Provider\t%s\n", d.Provider)
		fmt.Fprintf(w, "Status\t%s\n", d.Status)
		fmt.Fprintf(w, "Fee\t%s\n", d.Fee.StringFixed(2))
		fmt.Fprintf(w, "Commission\t%s\n", d.Commission.StringFixed(2))
		fmt.Fprintf(w, "Amount range\t%s - %s\n", d.MinAmount.StringFixed(2), d.MaxAmount.StringFixed(2))
		fmt.Fprintf(w, "Updated\t%s\n", fmtShowTime(d.UpdatedAt))
		if d.Description != "" {
			fmt.Fprintf(w, "Description\t%s\n", d.Description)
		}

	case *admin.SettlementDetail:
		fmt.Fprintf(w, "ID\t%s\n", d.ID)
		fmt.Fprintf(w, "Provider\t%s\n", d.Provider)
		fmt.Fprintf(w, "Status\t%s\n", d.Status)
		fmt.Fprintf(w, "Gross\t%s\n", d.Gross.StringFixed(2))
		fmt.Fprintf(w, "Fees\t%s\n", d.Fees.StringFixed(2))
		fmt.Fprintf(w, "Net\t%s\n", d.Net.StringFixed(2))
		fmt.Fprintf(w, "Period\t%s - %s\n", d.PeriodStart.Format("2006-01-02"), d.PeriodEnd.Format("2006-01-02"))
		fmt.Fprintf(w, "Transactions\t%d\n", d.TransactionCount)
		fmt.Fprintf(w, "Disputed\t%d\n", d.DisputedCount)
		if d.ApprovedBy != "" {
			fmt.Fprintf(w, "Approved by\t%s\n", d.ApprovedBy)
			fmt.Fprintf(w, "Approved at\t%s\n", fmtShowTime(d.ApprovedAt))
		}
	}
}

func fmtShowTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
