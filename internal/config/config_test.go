package config_test

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"

	"clinicwatch/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.WebhookEnvVar, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "clinicwatch", "screens")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Component() != "hk.org.ha.CMHandy/hk.org.ha.cmhandy.MainActivity" {
		t.Fatalf("unexpected component: %q", cfg.Component())
	}
	if got := cfg.Detection.AvailabilityRegion.Rect(); got != image.Rect(82, 1029, 1000, 1174) {
		t.Fatalf("unexpected availability region: %v", got)
	}
	if diff := cmp.Diff([]string{"科類", "選擇你所需要的科類"}, cfg.Detection.NavigationMarkers); diff != "" {
		t.Fatalf("navigation markers mismatch (-want +got):\n%s", diff)
	}
	if cfg.PollInterval().Minutes() != 30 {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}
	if err := cfg.RequireWebhook(); err == nil {
		t.Fatal("expected RequireWebhook to fail without a webhook URL")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clinicwatch.toml")

	type payload struct {
		Device struct {
			Serial  string       `toml:"serial"`
			BookTap config.Point `toml:"book_tap"`
		} `toml:"device"`
		Detection struct {
			NavigationMarkers  []string      `toml:"navigation_markers"`
			AvailabilityRegion config.Region `toml:"availability_region"`
		} `toml:"detection"`
		Notifications struct {
			WebhookURL string `toml:"webhook_url"`
		} `toml:"notifications"`
	}
	custom := payload{}
	custom.Device.Serial = " emulator-5554 "
	custom.Device.BookTap = config.Point{X: 10, Y: 20}
	custom.Detection.NavigationMarkers = []string{" 科類 ", "科類", ""}
	custom.Detection.AvailabilityRegion = config.Region{Left: 1, Top: 2, Right: 3, Bottom: 4}
	custom.Notifications.WebhookURL = "https://discord.com/api/webhooks/1/abc"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Device.Serial != "emulator-5554" {
		t.Fatalf("expected trimmed serial, got %q", cfg.Device.Serial)
	}
	if cfg.Device.BookTap != (config.Point{X: 10, Y: 20}) {
		t.Fatalf("unexpected book tap: %+v", cfg.Device.BookTap)
	}
	if diff := cmp.Diff([]string{"科類"}, cfg.Detection.NavigationMarkers); diff != "" {
		t.Fatalf("navigation markers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Detection.AvailabilityRegion != (config.Region{Left: 1, Top: 2, Right: 3, Bottom: 4}) {
		t.Fatalf("unexpected region: %+v", cfg.Detection.AvailabilityRegion)
	}
	if err := cfg.RequireWebhook(); err != nil {
		t.Fatalf("RequireWebhook returned error: %v", err)
	}
	if cfg.Device.RefreshTap != config.Default().Device.RefreshTap {
		t.Fatalf("expected default refresh tap, got %+v", cfg.Device.RefreshTap)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "clinicwatch.toml")
	if err := os.WriteFile(configPath, []byte("[device]\npackge = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestWebhookFromEnvironment(t *testing.T) {
	t.Setenv(config.WebhookEnvVar, " https://ntfy.sh/clinic ")
	configPath := filepath.Join(t.TempDir(), "missing.toml")

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Notifications.WebhookURL != "https://ntfy.sh/clinic" {
		t.Fatalf("expected webhook from env, got %q", cfg.Notifications.WebhookURL)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_webhook_here") {
		t.Fatalf("sample config missing placeholder webhook: %s", contents)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if cfg.Detection.NegativeIndicator != "未有配額" {
		t.Fatalf("unexpected negative indicator: %q", cfg.Detection.NegativeIndicator)
	}
	if cfg.Notifications.Message != config.Default().Notifications.Message {
		t.Fatalf("sample message drifted from default: %q", cfg.Notifications.Message)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"inverted horizontal region", func(c *config.Config) {
			c.Detection.AvailabilityRegion = config.Region{Left: 100, Top: 0, Right: 100, Bottom: 10}
		}},
		{"inverted vertical region", func(c *config.Config) {
			c.Detection.AvailabilityRegion = config.Region{Left: 0, Top: 20, Right: 10, Bottom: 10}
		}},
		{"no markers", func(c *config.Config) { c.Detection.NavigationMarkers = nil }},
		{"no negative indicator", func(c *config.Config) { c.Detection.NegativeIndicator = "" }},
		{"zero poll interval", func(c *config.Config) { c.Timing.PollIntervalMinutes = 0 }},
		{"zero launch settle", func(c *config.Config) { c.Timing.LaunchSettleSeconds = 0 }},
		{"insecure webhook", func(c *config.Config) { c.Notifications.WebhookURL = "http://example.com/hook" }},
		{"unknown provider", func(c *config.Config) { c.Notifications.Provider = "slack" }},
		{"relative remote dir", func(c *config.Config) { c.Device.RemoteDir = "sdcard" }},
		{"negative tap", func(c *config.Config) { c.Device.RefreshTap = config.Point{X: -1, Y: 5} }},
		{"page seg mode", func(c *config.Config) { c.OCR.PageSegMode = 14 }},
		{"negative crop scale", func(c *config.Config) { c.OCR.CropScale = -2 }},
		{"oversized crop scale", func(c *config.Config) { c.OCR.CropScale = 9 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadCropScale(t *testing.T) {
	t.Setenv(config.WebhookEnvVar, "")
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{name: "zero means unscaled", value: "0", want: 1},
		{name: "explicit", value: "2.5", want: 2.5},
		{name: "negative rejected", value: "-1.5", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "clinicwatch.toml")
			if err := os.WriteFile(path, []byte("[ocr]\ncrop_scale = "+tc.value+"\n"), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, _, _, err := config.Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected load error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.OCR.CropScale != tc.want {
				t.Fatalf("crop_scale = %g, want %g", cfg.OCR.CropScale, tc.want)
			}
			if cfg.Detection.NormalizeText {
				t.Fatal("normalize_text must default to false")
			}
		})
	}
}
