package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/poll"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll resources on schedule and print changes",
	Long: `Poll each resource on its configured interval and print one
summary line per refresh. A refresh that is still in flight when its
next tick arrives is skipped, not queued.

Intervals come from the [poll] section of config.toml; an interval of 0
disables that resource.

Use Ctrl+C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		m := poll.New(func(ctx context.Context, r admin.Resource) error {
			total, err := countOf(ctx, client, r)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s: %d total\n", time.Now().Format("15:04:05"), r, total)
			return nil
		})
		m.WithLogger(logger)

		scheduled := 0
		for _, r := range admin.Resources {
			iv := cfg.Interval(r)
			if err := m.Add(r, iv); err != nil {
				return eris.Wrapf(err, "schedule %s", r)
			}
			if iv > 0 {
				fmt.Printf("watching %s every %s\n", r, iv)
				scheduled++
			}
		}
		if scheduled == 0 {
			return fmt.Errorf("all poll intervals are disabled in config")
		}

		m.Start()
		<-cmd.Context().Done()

		stopped := m.Stop()
		select {
		case <-stopped.Done():
		case <-time.After(5 * time.Second):
		}
		return cmd.Context().Err()
	},
}

// countOf fetches the smallest page of r just for its total count.
func countOf(ctx context.Context, client admin.Client, r admin.Resource) (int, error) {
	q := r.DefaultQuery(1)
	switch r {
	case admin.ResourceUsers:
		pg, err := client.ListUsers(ctx, q)
		return pg.TotalCount, err
	case admin.ResourceTransactions:
		pg, err := client.ListTransactions(ctx, q)
		return pg.TotalCount, err
	case admin.ResourceServices:
		pg, err := client.ListServices(ctx, q)
		return pg.TotalCount, err
	case admin.ResourceSettlements:
		pg, err := client.ListSettlements(ctx, q)
		return pg.TotalCount, err
	}
	return 0, fmt.Errorf("unhandled resource %q", r)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
