package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

var (
	bulkReason string
	bulkYes    bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <resource> <action> <id>...",
	Short: "Apply a bulk action to a set of entities",
	Long: `Apply one action to one or more entities. Items are applied
independently on the server, so some may succeed while others fail;
every failure is reported with its own message and the command exits
non-zero if any item failed.

Destructive actions ask for confirmation unless --yes is given, and
some actions require --reason.

Examples:
  payops bulk users verify usr-0003 usr-0014
  payops bulk users suspend usr-0042 --reason "chargeback fraud" --yes
  payops bulk transactions retry txn-0019`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveResource(args[0])
		if err != nil {
			return err
		}
		action, ok := console.FindAction(r.Actions(), args[1])
		if !ok {
			names := make([]string, 0, len(r.Actions()))
			for _, a := range r.Actions() {
				names = append(names, a.Name)
			}
			return fmt.Errorf("unknown action %q for %s (valid: %s)", args[1], r, strings.Join(names, ", "))
		}
		ids := args[2:]

		if action.NeedsReason && bulkReason == "" {
			return fmt.Errorf("action %q requires --reason", action.Name)
		}

		confirmed := bulkYes || !action.Destructive
		if action.Destructive && !bulkYes {
			fmt.Printf("%s %d item(s) on %s. This cannot be undone.\n", action.Label, len(ids), r)
			fmt.Print("Continue? [y/N] ")
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Scan()
			answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
			confirmed = true
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		d := console.NewDispatcher(admin.BulkFunc(client, r))
		result, err := d.Dispatch(cmd.Context(), action, ids, bulkReason, confirmed)
		if err != nil {
			return eris.Wrapf(err, "bulk %s", action.Name)
		}

		fmt.Printf("%d succeeded, %d failed\n", result.SuccessCount, result.ErrorCount)
		if result.ErrorCount > 0 {
			failed := make([]string, 0, len(result.PerItemErrors))
			for id := range result.PerItemErrors {
				failed = append(failed, id)
			}
			sort.Strings(failed)
			for _, id := range failed {
				fmt.Printf("  %s: %s\n", id, result.PerItemErrors[id])
			}
			return fmt.Errorf("%d item(s) failed", result.ErrorCount)
		}
		return nil
	},
}

func init() {
	bulkCmd.Flags().StringVar(&bulkReason, "reason", "", "Reason recorded with the action")
	bulkCmd.Flags().BoolVarP(&bulkYes, "yes", "y", false, "Skip confirmation prompt")

	rootCmd.AddCommand(bulkCmd)
}
