package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

var overviewJSON bool

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show platform totals and pending transactions",
	Long: `Show the platform overview: user, transaction, service and
settlement totals, the wallet float, and the most recent pending
transactions.

Examples:
  payops overview
  payops overview --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		var (
			ov      *admin.Overview
			pending console.Page[admin.Transaction]
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			ov, err = client.Overview(ctx)
			return eris.Wrap(err, "fetch overview")
		})
		g.Go(func() error {
			q := admin.ResourceTransactions.DefaultQuery(5).WithFilter("status", "pending")
			var err error
			pending, err = client.ListTransactions(ctx, q)
			return eris.Wrap(err, "fetch pending transactions")
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if overviewJSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"overview": ov,
				"pending":  pending.Items,
			})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Users\t%d (%d active)\n", ov.UserCount, ov.ActiveUserCount)
		fmt.Fprintf(w, "Transactions\t%d (%d pending)\n", ov.TransactionCount, ov.PendingTransactions)
		fmt.Fprintf(w, "Services\t%d\n", ov.ServiceCount)
		fmt.Fprintf(w, "Settlements\t%d\n", ov.SettlementCount)
		fmt.Fprintf(w, "Wallet float\t%s\n", ov.WalletTotal.StringFixed(2))
		w.Flush()

		if len(pending.Items) > 0 {
			fmt.Printf("\nPending transactions (%d total):\n", pending.TotalCount)
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, t := range pending.Items {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", t.ID, t.UserID, t.Service, t.Amount.StringFixed(2))
			}
			tw.Flush()
		}
		return nil
	},
}

func init() {
	overviewCmd.Flags().BoolVar(&overviewJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(overviewCmd)
}
