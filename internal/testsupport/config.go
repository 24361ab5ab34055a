package testsupport

import (
	"path/filepath"
	"testing"

	"clinicwatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a default config whose directories live under a per-test
// temp dir. Directories are created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Notifications.WebhookURL = "https://example.invalid/webhook"

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithWebhookURL overrides the webhook destination.
func WithWebhookURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.WebhookURL = url
	}
}

// WithProvider selects the notification provider.
func WithProvider(provider string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.Provider = provider
	}
}
