// Package config handles loading and managing payops configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/veloxpay/payops/internal/admin"
)

// RemoteConfig holds admin API connection settings.
type RemoteConfig struct {
	URL           string `toml:"url"`            // Admin API base URL
	Token         string `toml:"token"`          // Bearer token
	AllowInsecure bool   `toml:"allow_insecure"` // Permit plain HTTP (trusted networks only)
	TimeoutSecs   int    `toml:"timeout_secs"`   // Request timeout (default: 30)
	RateLimitQPS  int    `toml:"rate_limit_qps"` // Client-side request rate (default: 5)
}

// PollConfig holds per-resource refresh intervals in seconds.
// Zero disables polling for that resource.
type PollConfig struct {
	UsersSecs        int `toml:"users_secs"`
	TransactionsSecs int `toml:"transactions_secs"`
	ServicesSecs     int `toml:"services_secs"`
	SettlementsSecs  int `toml:"settlements_secs"`
}

// UIConfig holds terminal console settings.
type UIConfig struct {
	PageSize int `toml:"page_size"` // Rows per page (default: 20)
}

// DemoConfig holds demo server settings.
type DemoConfig struct {
	BindAddr string `toml:"bind_addr"` // Listen address (default: 127.0.0.1)
	Port     int    `toml:"port"`      // Listen port (default: 8391)
	Token    string `toml:"token"`     // Token the demo server accepts
}

type Config struct {
	Remote RemoteConfig `toml:"remote"`
	Poll   PollConfig   `toml:"poll"`
	UI     UIConfig     `toml:"ui"`
	Demo   DemoConfig   `toml:"demo"`

	// Computed path (not from config file)
	HomeDir string `toml:"-"`
}

// DefaultHome returns the default payops home directory.
// Respects the PAYOPS_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("PAYOPS_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".payops"
	}
	return filepath.Join(home, ".payops")
}

// Load reads the configuration from the specified file.
// If path is empty, uses config.toml under home (or the default home when
// home is empty). A PAYOPS_TOKEN environment variable overrides the
// configured token so credentials can stay out of the file.
func Load(path, home string) (*Config, error) {
	homeDir := home
	if homeDir == "" {
		homeDir = DefaultHome()
	}

	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Config{
		HomeDir: homeDir,
		Remote: RemoteConfig{
			TimeoutSecs:  30,
			RateLimitQPS: 5,
		},
		Poll: PollConfig{
			UsersSecs:        120,
			TransactionsSecs: 30,
			ServicesSecs:     300,
			SettlementsSecs:  60,
		},
		UI: UIConfig{
			PageSize: 20,
		},
		Demo: DemoConfig{
			BindAddr: "127.0.0.1",
			Port:     8391,
			Token:    "demo-token",
		},
	}

	// Config file is optional - use defaults if not present
	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyEnv(cfg)
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays environment overrides.
func applyEnv(cfg *Config) {
	if tok := os.Getenv("PAYOPS_TOKEN"); tok != "" {
		cfg.Remote.Token = tok
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.Remote.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Remote.TimeoutSecs) * time.Second
}

// Interval returns the poll interval for a resource. Zero disables
// polling.
func (c *Config) Interval(r admin.Resource) time.Duration {
	secs := 0
	switch r {
	case admin.ResourceUsers:
		secs = c.Poll.UsersSecs
	case admin.ResourceTransactions:
		secs = c.Poll.TransactionsSecs
	case admin.ResourceServices:
		secs = c.Poll.ServicesSecs
	case admin.ResourceSettlements:
		secs = c.Poll.SettlementsSecs
	}
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// DemoAddr returns the demo server's listen address.
func (c *Config) DemoAddr() string {
	return fmt.Sprintf("%s:%d", c.Demo.BindAddr, c.Demo.Port)
}

// PageSize returns the configured rows per page, falling back to the
// default when unset.
func (c *Config) PageSize() int {
	if c.UI.PageSize <= 0 {
		return 20
	}
	return c.UI.PageSize
}
