package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"clinicwatch/internal/config"
	"clinicwatch/internal/deps"
)

const deviceCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries for the given config.
// tesseract is optional: the OCR engine links libtesseract directly and the
// CLI is only a convenient proxy for an installed runtime.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        NameADB,
			Command:     cfg.Device.ADBBinary,
			Description: "Required to drive the device",
		},
		{
			Name:        NameTesseract,
			Command:     "tesseract",
			Description: "OCR runtime with " + cfg.OCR.Language + " traineddata",
			Optional:    true,
		},
	})
}

// CheckDevice verifies that adb reports the target device as ready.
func CheckDevice(ctx context.Context, device StateReader) Result {
	const name = NameDevice

	checkCtx, cancel := context.WithTimeout(ctx, deviceCheckTimeout)
	defer cancel()

	state, err := device.State(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("get-state failed (%v)", err)}
	}
	if state != "device" {
		return Result{Name: name, Detail: fmt.Sprintf("state %q (expected \"device\"; check USB debugging authorization)", state)}
	}
	return Result{Name: name, Passed: true, Detail: "connected"}
}

// CheckWebhook verifies that a webhook destination is configured.
func CheckWebhook(cfg *config.Config) Result {
	const name = NameWebhook
	url := strings.TrimSpace(cfg.Notifications.WebhookURL)
	if url == "" {
		return Result{Name: name, Detail: fmt.Sprintf("not configured (set %s or notifications.webhook_url)", config.WebhookEnvVar)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Notifications.Provider + " " + redactURL(url)}
}

// redactURL keeps the scheme and host of a webhook URL; the path carries the token.
func redactURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "(redacted)"
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host + "/…"
}
