package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"clinicwatch/internal/adb"
	"clinicwatch/internal/config"
	"clinicwatch/internal/logging"
	"clinicwatch/internal/navigator"
	"clinicwatch/internal/notifications"
	"clinicwatch/internal/ocr"
	"clinicwatch/internal/perception"
	"clinicwatch/internal/poller"
	"clinicwatch/internal/preflight"
	"clinicwatch/internal/screenshot"
)

const logFilePattern = "clinicwatch-*.log"

// newRunLogger opens a per-invocation log file in the log directory and
// prunes old ones.
func newRunLogger(cfg *config.Config) (*slog.Logger, string, error) {
	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("clinicwatch-%s.log", runID))
	logger, err := logging.NewFromConfig(cfg, logPath)
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, logFilePattern, logPath, cfg.Logging.RetentionDays)
	return logger, logPath, nil
}

func newDevice(cfg *config.Config) (*adb.Client, error) {
	client, err := adb.New(cfg.Device.ADBBinary, cfg.CommandTimeout(), adb.WithSerial(cfg.Device.Serial))
	if err != nil {
		return nil, fmt.Errorf("create adb client: %w", err)
	}
	return client, nil
}

func newClassifier(cfg *config.Config, logger *slog.Logger) *perception.Classifier {
	engine := ocr.NewTesseract(ocr.WithPageSegMode(cfg.OCR.PageSegMode))
	return perception.NewClassifier(engine, perception.SettingsFromConfig(cfg), logger)
}

func newNotifier(cfg *config.Config, dryRun bool) notifications.Service {
	if dryRun {
		return notifications.NewNoop()
	}
	return notifications.NewService(cfg)
}

func newLoop(cfg *config.Config, device *adb.Client, logger *slog.Logger, opts loopOptions) *poller.Loop {
	settings := poller.SettingsFromConfig(cfg)
	settings.KeepDir = opts.keepScreens
	return poller.New(poller.Dependencies{
		Navigator:  navigator.NewSequencer(device, nil, navigator.SettingsFromConfig(cfg), logger),
		Screens:    screenshot.NewAcquirer(device, cfg.Device.RemoteDir, cfg.Paths.WorkDir, logger),
		Classifier: newClassifier(cfg, logger),
		Notifier:   newNotifier(cfg, opts.dryRun),
	}, settings, logger)
}

// requirePreflight returns an error naming every failed required check.
func requirePreflight(results []preflight.Result) error {
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return errors.New("preflight failed: " + strings.Join(parts, "; ") + " (run 'clinicwatch doctor' for details)")
}
