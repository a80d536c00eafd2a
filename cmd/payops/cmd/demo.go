package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/demo"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the in-memory demo backend",
	Long: `Run an in-memory backend serving the same admin API as the real
platform, with seeded users, transactions, services and settlements.
Useful for trying the console without credentials and as a target for
integration tests.

Point the console at it:

  [remote]
  url = "http://127.0.0.1:8391"
  token = "demo-token"
  allow_insecure = true

Use Ctrl+C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoPort > 0 {
			cfg.Demo.Port = demoPort
		}
		srv := demo.NewServer(cfg.Demo.Token, demo.NewStore(), logger)
		addr := cfg.DemoAddr()

		serverErr := make(chan error, 1)
		go func() {
			if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		fmt.Printf("demo backend listening on http://%s\n", addr)

		select {
		case err := <-serverErr:
			return fmt.Errorf("demo server: %w", err)
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return cmd.Context().Err()
	},
}

var demoPort int

func init() {
	demoCmd.Flags().IntVar(&demoPort, "port", 0, "Listen port (overrides config)")
	rootCmd.AddCommand(demoCmd)
}
