package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clinicwatch/internal/config"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	adbPath    string
}

// setupCLITestEnv writes a config whose directories live in a temp dir and
// whose adb binary is a shell stub reporting deviceState from get-state.
func setupCLITestEnv(t *testing.T, deviceState, webhook string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv(config.WebhookEnvVar, "")

	adbPath := filepath.Join(base, "bin", "adb")
	script := fmt.Sprintf("#!/bin/sh\ncase \"$*\" in\n  *get-state*) echo %s ;;\nesac\nexit 0\n", deviceState)
	if err := os.MkdirAll(filepath.Dir(adbPath), 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	if err := os.WriteFile(adbPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write adb stub: %v", err)
	}

	configPath := filepath.Join(base, "clinicwatch.toml")
	content := fmt.Sprintf(`[paths]
work_dir = %q
state_dir = %q
log_dir = %q

[device]
adb_binary = %q

[notifications]
webhook_url = %q
`,
		filepath.Join(base, "work"),
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
		adbPath,
		webhook,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath, adbPath: adbPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const testWebhook = "https://discord.com/api/webhooks/123/secret-token"

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "device", testWebhook)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowRedactsWebhook(t *testing.T) {
	env := setupCLITestEnv(t, "device", testWebhook)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "secret-token") {
		t.Fatalf("config show leaked webhook: %s", out)
	}
	requireContains(t, out, "negative_indicator")
	requireContains(t, out, "未有配額")
}

func TestRunRequiresWebhook(t *testing.T) {
	env := setupCLITestEnv(t, "device", "")

	_, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil {
		t.Fatal("expected run to fail without a webhook")
	}
	requireContains(t, err.Error(), "webhook_url is required")
}

func TestRunFailsPreflightWhenDeviceUnauthorized(t *testing.T) {
	env := setupCLITestEnv(t, "unauthorized", testWebhook)

	_, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight failed")
	requireContains(t, err.Error(), "Device")
}

func TestDoctorReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t, "device", testWebhook)

	out, _, err := runCLI(t, []string{"doctor", "--table"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Device")
	requireContains(t, out, "connected")
	requireContains(t, out, "Monitor")
	if strings.Contains(out, "secret-token") {
		t.Fatalf("doctor leaked webhook: %s", out)
	}
}

func TestDoctorFailsWithoutDevice(t *testing.T) {
	env := setupCLITestEnv(t, "offline", testWebhook)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to report failure")
	}
	requireContains(t, out, "✗ Device")
}

func TestLogsShowsNewestRunLog(t *testing.T) {
	env := setupCLITestEnv(t, "device", testWebhook)
	logDir := filepath.Join(env.baseDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(logDir, "clinicwatch-20260101T000000.000Z.log"), []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLogsWithoutRunLogsFails(t *testing.T) {
	env := setupCLITestEnv(t, "device", testWebhook)
	if err := os.MkdirAll(filepath.Join(env.baseDir, "logs"), 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}

	if _, _, err := runCLI(t, []string{"logs"}, env.configPath); err == nil {
		t.Fatal("expected error when no run logs exist")
	}
}
