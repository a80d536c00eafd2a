package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/demo"
	"github.com/veloxpay/payops/internal/tui"
)

var tuiDemo bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive operations console",
	Long: `Open the interactive terminal console.

Panels:
  Users         Accounts with wallet balances
  Transactions  Top-ups and bill payments
  Services      Billers and their commercial terms
  Settlements   Provider settlement batches

Navigation:
  Tab/g       Switch panel
  ↑/k, ↓/j    Move up/down
  [ ]         Previous / next page
  Enter       Open detail
  /           Search
  s, r        Cycle sort field, reverse order

Selection & actions:
  Space       Toggle selection
  S           Select all visible
  b           Bulk action on selection
  c / d       Credit / debit wallet (user detail)
  q           Quit

Each panel re-fetches on its configured poll interval. With --demo the
console runs against an in-process seeded backend and needs no
credentials or network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := consoleClient()
		if err != nil {
			return err
		}

		intervals := make(map[admin.Resource]time.Duration, len(admin.Resources))
		for _, r := range admin.Resources {
			intervals[r] = cfg.Interval(r)
		}

		m := tui.New(client, tui.Options{
			Version:   version,
			PageSize:  cfg.PageSize(),
			Intervals: intervals,
		})

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run console: %w", err)
		}
		return nil
	},
}

func consoleClient() (admin.Client, error) {
	if tuiDemo {
		return demo.NewLocalClient(demo.NewStore()), nil
	}
	return apiClient()
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiDemo, "demo", false, "Use an in-process seeded backend")
	rootCmd.AddCommand(tuiCmd)
}
