package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veloxpay/payops/internal/admin"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Remote.RateLimitQPS != 5 {
		t.Errorf("rate_limit_qps = %d, want 5", cfg.Remote.RateLimitQPS)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %s, want 30s", cfg.Timeout())
	}
	if cfg.PageSize() != 20 {
		t.Errorf("PageSize() = %d, want 20", cfg.PageSize())
	}
	if cfg.Interval(admin.ResourceTransactions) != 30*time.Second {
		t.Errorf("transactions interval = %s, want 30s", cfg.Interval(admin.ResourceTransactions))
	}
	if cfg.Interval(admin.ResourceServices) != 5*time.Minute {
		t.Errorf("services interval = %s, want 5m", cfg.Interval(admin.ResourceServices))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[remote]
url = "https://admin.veloxpay.example"
token = "file-token"
rate_limit_qps = 10

[poll]
transactions_secs = 15
users_secs = 0

[ui]
page_size = 50
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Remote.URL != "https://admin.veloxpay.example" {
		t.Errorf("url = %q", cfg.Remote.URL)
	}
	if cfg.Remote.Token != "file-token" {
		t.Errorf("token = %q, want file-token", cfg.Remote.Token)
	}
	if cfg.Remote.RateLimitQPS != 10 {
		t.Errorf("rate_limit_qps = %d, want 10", cfg.Remote.RateLimitQPS)
	}
	if cfg.Interval(admin.ResourceTransactions) != 15*time.Second {
		t.Errorf("transactions interval = %s, want 15s", cfg.Interval(admin.ResourceTransactions))
	}
	if cfg.Interval(admin.ResourceUsers) != 0 {
		t.Errorf("users interval = %s, want 0 (disabled)", cfg.Interval(admin.ResourceUsers))
	}
	if cfg.PageSize() != 50 {
		t.Errorf("PageSize() = %d, want 50", cfg.PageSize())
	}
	// Untouched sections keep their defaults.
	if cfg.Interval(admin.ResourceSettlements) != time.Minute {
		t.Errorf("settlements interval = %s, want 1m", cfg.Interval(admin.ResourceSettlements))
	}
}

func TestTokenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[remote]\ntoken = \"file-token\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PAYOPS_TOKEN", "env-token")
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.Token != "env-token" {
		t.Errorf("token = %q, want env-token", cfg.Remote.Token)
	}
}

func TestLoadHomeOverride(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\npage_size = 7\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// An empty path resolves config.toml under the explicit home.
	cfg, err := Load("", home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HomeDir != home {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, home)
	}
	if cfg.PageSize() != 7 {
		t.Errorf("PageSize() = %d, want 7", cfg.PageSize())
	}
}

func TestDefaultHomeEnv(t *testing.T) {
	t.Setenv("PAYOPS_HOME", "/tmp/payops-home")
	if got := DefaultHome(); got != "/tmp/payops-home" {
		t.Errorf("DefaultHome() = %q, want /tmp/payops-home", got)
	}
}
