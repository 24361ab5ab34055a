package preflight

import (
	"context"
	"strings"

	"clinicwatch/internal/config"
)

// Check names as they appear in Result.Name.
const (
	NameWorkDir   = "Work directory"
	NameStateDir  = "State directory"
	NameADB       = "adb"
	NameTesseract = "tesseract"
	NameDevice    = "Device"
	NameWebhook   = "Webhook"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results never block a run.
	Optional bool
}

// StateReader reports the adb connection state of the target device.
type StateReader interface {
	State(ctx context.Context) (string, error)
}

// Options selects which checks RunAll performs.
type Options struct {
	// Device is queried for its connection state when set.
	Device StateReader
	// RequireWebhook adds a check that a webhook URL is configured.
	RequireWebhook bool
}

// RunAll executes the applicable preflight checks for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess(NameWorkDir, cfg.Paths.WorkDir))
	results = append(results, CheckDirectoryAccess(NameStateDir, cfg.Paths.StateDir))
	for _, status := range CheckSystemDeps(cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
		switch {
		case status.Available:
			result.Detail = status.Path
		default:
			result.Detail = status.Detail
			if desc := strings.TrimSpace(status.Description); desc != "" {
				result.Detail += " (" + desc + ")"
			}
		}
		results = append(results, result)
	}
	if opts.Device != nil {
		results = append(results, CheckDevice(ctx, opts.Device))
	}
	if opts.RequireWebhook {
		results = append(results, CheckWebhook(cfg))
	}
	return results
}

// Failed returns the non-optional results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
