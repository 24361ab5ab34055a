package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clinicwatch/internal/config"
	"clinicwatch/internal/monitor"
	"clinicwatch/internal/ocr"
	"clinicwatch/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var asTable bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the device, binaries, directories, and webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			device, err := newDevice(cfg)
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Device: device, RequireWebhook: true})
			sections := doctorSections(cfg, ctx.configPath, results, func() (bool, error) { return monitor.LockHeld(cfg) })

			out := cmd.OutOrStdout()
			if asTable {
				fmt.Fprintln(out, reportTable(sections))
			} else {
				writeReport(out, sections, shouldColorize(out))
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTable, "table", false, "Render results as a table")
	return cmd
}

// doctorSections groups preflight results with the device and detection
// settings they depend on.
func doctorSections(cfg *config.Config, configPath string, results []preflight.Result, lockHeld func() (bool, error)) []reportSection {
	byName := make(map[string]preflight.Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	pick := func(names ...string) []reportLine {
		var lines []reportLine
		for _, name := range names {
			if r, ok := byName[name]; ok {
				lines = append(lines, resultLine(r))
				delete(byName, name)
			}
		}
		return lines
	}

	host := pick(preflight.NameWorkDir, preflight.NameStateDir, preflight.NameADB, preflight.NameTesseract)
	device := append(pick(preflight.NameDevice),
		reportLine{label: "Serial", detail: valueOr(cfg.Device.Serial, "(any attached device)")},
		reportLine{label: "App", detail: cfg.Component()},
		reportLine{label: "Taps", detail: fmt.Sprintf("refresh %d,%d  book %d,%d",
			cfg.Device.RefreshTap.X, cfg.Device.RefreshTap.Y, cfg.Device.BookTap.X, cfg.Device.BookTap.Y)},
	)
	detection := []reportLine{
		{label: "Engine", detail: ocr.Version()},
		{label: "Language", detail: fmt.Sprintf("%s (psm %d)", cfg.OCR.Language, cfg.OCR.PageSegMode)},
		{label: "Region", detail: fmt.Sprintf("%v x%g", cfg.Detection.AvailabilityRegion.Rect(), cfg.OCR.CropScale)},
		{label: "Matching", detail: matchingMode(cfg)},
	}
	notify := pick(preflight.NameWebhook)

	// Anything RunAll adds later still gets shown.
	for _, r := range results {
		if _, ok := byName[r.Name]; ok {
			host = append(host, resultLine(r))
		}
	}

	return []reportSection{
		{title: "Host", lines: host},
		{title: "Device", lines: device},
		{title: "Detection", lines: detection},
		{title: "Notifications", lines: notify},
		{title: "Runtime", lines: []reportLine{
			{label: "Config", detail: configPath},
			monitorLine(lockHeld),
		}},
	}
}

func resultLine(r preflight.Result) reportLine {
	return reportLine{label: r.Name, state: resultState(r), detail: r.Detail}
}

func resultState(r preflight.Result) checkState {
	switch {
	case r.Passed:
		return statePass
	case r.Optional:
		return stateWarn
	default:
		return stateFail
	}
}

func matchingMode(cfg *config.Config) string {
	mode := "verbatim"
	if cfg.Detection.NormalizeText {
		mode = "normalized"
	}
	return fmt.Sprintf("%s; markers %s; absent %s", mode,
		strings.Join(cfg.Detection.NavigationMarkers, ", "), cfg.Detection.NegativeIndicator)
}

func monitorLine(lockHeld func() (bool, error)) reportLine {
	held, err := lockHeld()
	switch {
	case err != nil:
		return reportLine{label: "Monitor", state: stateWarn, detail: err.Error()}
	case held:
		return reportLine{label: "Monitor", detail: "running (lock held)"}
	default:
		return reportLine{label: "Monitor", detail: "not running"}
	}
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
