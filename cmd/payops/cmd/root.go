package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/config"
	"github.com/veloxpay/payops/internal/remote"
)

var (
	cfgFile string
	homeDir string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "payops",
	Short: "Operations console for the payments platform",
	Long: `payops is the terminal operations console for the top-up and
bill-payment platform. It browses users, transactions, services and
settlements, runs bulk actions against them, and mutates user wallets,
all against the admin REST API.

Run 'payops tui' for the interactive console or use the subcommands
for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Version never needs config or a backend.
		if cmd.Name() == "version" {
			return nil
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		var err error
		cfg, err = config.Load(cfgFile, homeDir)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $PAYOPS_HOME/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "payops home directory (default ~/.payops)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and full error traces")
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if verbose {
			fmt.Fprint(os.Stderr, eris.ToString(err, true))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

// apiClient builds the remote client from the loaded config.
func apiClient() (admin.Client, error) {
	c, err := remote.New(remote.Config{
		URL:           cfg.Remote.URL,
		Token:         cfg.Remote.Token,
		AllowInsecure: cfg.Remote.AllowInsecure,
		Timeout:       cfg.Timeout(),
		RateLimitQPS:  cfg.Remote.RateLimitQPS,
	})
	if err != nil {
		return nil, eris.Wrap(err, "configure remote client")
	}
	return c, nil
}

// resolveResource parses a resource name argument, listing the valid
// names on failure so scripts get a usable message.
func resolveResource(arg string) (admin.Resource, error) {
	r, err := admin.ParseResource(arg)
	if err != nil {
		return "", fmt.Errorf("%w (valid: users, transactions, services, settlements)", err)
	}
	return r, nil
}
