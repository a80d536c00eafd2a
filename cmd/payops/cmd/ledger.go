package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/console"
)

var (
	ledgerReason    string
	ledgerReference string
)

var creditCmd = &cobra.Command{
	Use:   "credit <user-id> <amount>",
	Short: "Credit a user's wallet",
	Long: `Credit a user's wallet and print the post-mutation balance as
computed by the server.

Examples:
  payops credit usr-0042 250 --reason "refund TXN-2026-0001"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLedger(cmd, args, console.Credit)
	},
}

var debitCmd = &cobra.Command{
	Use:   "debit <user-id> <amount>",
	Short: "Debit a user's wallet",
	Long: `Debit a user's wallet. The debit is rejected locally when the
amount exceeds the user's current balance, without any network call to
the ledger.

Examples:
  payops debit usr-0042 99.50 --reason "chargeback recovery"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLedger(cmd, args, console.Debit)
	},
}

func runLedger(cmd *cobra.Command, args []string, dir console.Direction) error {
	mut, err := console.ParseMutation(args[0], dir, args[1], ledgerReason, ledgerReference)
	if err != nil {
		return err
	}

	client, err := apiClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// The current balance comes from the server so the local debit
	// ceiling reflects reality, not a cached figure.
	user, err := client.GetUser(ctx, mut.AccountID)
	if err != nil {
		return eris.Wrapf(err, "fetch user %s", mut.AccountID)
	}

	guard := console.NewWalletGuard(client)
	balance, err := guard.Submit(ctx, mut, user.Balance)
	if err != nil {
		return eris.Wrapf(err, "%s %s", dir, mut.AccountID)
	}

	verb := "credited"
	if dir == console.Debit {
		verb = "debited"
	}
	fmt.Printf("%s %s %s, new balance %s\n", verb, mut.AccountID, mut.Amount.StringFixed(2), balance.StringFixed(2))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{creditCmd, debitCmd} {
		c.Flags().StringVar(&ledgerReason, "reason", "", "Reason recorded in the ledger")
		c.Flags().StringVar(&ledgerReference, "reference", "", "Idempotency reference (generated when empty)")
		rootCmd.AddCommand(c)
	}
}
