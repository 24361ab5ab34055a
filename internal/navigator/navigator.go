// Package navigator drives the target app from launch to the department list.
package navigator

import (
	"context"
	"log/slog"
	"time"

	"clinicwatch/internal/clock"
	"clinicwatch/internal/config"
	"clinicwatch/internal/logging"
	"clinicwatch/internal/services"
)

// Device is the subset of the device driver the sequence needs.
type Device interface {
	StartActivity(ctx context.Context, component string) error
	Tap(ctx context.Context, x, y int) error
}

// Step names one device action of the sequence.
type Step string

const (
	StepLaunch  Step = "launch"
	StepRefresh Step = "refresh_tap"
	StepBook    Step = "book_tap"
)

// Settings holds the launch target, tap points, and settle waits.
type Settings struct {
	Component     string
	RefreshTap    config.Point
	BookTap       config.Point
	LaunchSettle  time.Duration
	RefreshSettle time.Duration
	BookSettle    time.Duration
}

// SettingsFromConfig extracts navigation settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Component:     cfg.Component(),
		RefreshTap:    cfg.Device.RefreshTap,
		BookTap:       cfg.Device.BookTap,
		LaunchSettle:  time.Duration(cfg.Timing.LaunchSettleSeconds) * time.Second,
		RefreshSettle: time.Duration(cfg.Timing.RefreshSettleSeconds) * time.Second,
		BookSettle:    time.Duration(cfg.Timing.BookSettleSeconds) * time.Second,
	}
}

// Outcome records which device actions failed. A failed action does not stop
// the sequence; later screenshots decide whether navigation worked.
type Outcome struct {
	Failures map[Step]error
}

// OK reports whether every action succeeded.
func (o Outcome) OK() bool {
	return len(o.Failures) == 0
}

// Sequencer runs launch, refresh tap, and book tap with a settle wait after each.
type Sequencer struct {
	device   Device
	sleeper  clock.Sleeper
	settings Settings
	logger   *slog.Logger
}

// NewSequencer constructs a Sequencer. A nil sleeper uses the wall clock.
func NewSequencer(device Device, sleeper clock.Sleeper, settings Settings, logger *slog.Logger) *Sequencer {
	if sleeper == nil {
		sleeper = clock.Real{}
	}
	return &Sequencer{
		device:   device,
		sleeper:  sleeper,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "navigator"),
	}
}

// PerformNavigationSequence launches the app, taps refresh, then taps book,
// waiting the configured settle time after each. Action failures are logged
// and recorded in the Outcome; only cancellation returns an error.
func (s *Sequencer) PerformNavigationSequence(ctx context.Context) (Outcome, error) {
	outcome := Outcome{Failures: map[Step]error{}}
	logger := logging.WithContext(ctx, s.logger)

	steps := []struct {
		step   Step
		settle time.Duration
		action func(context.Context) error
	}{
		{StepLaunch, s.settings.LaunchSettle, func(ctx context.Context) error {
			return s.device.StartActivity(ctx, s.settings.Component)
		}},
		{StepRefresh, s.settings.RefreshSettle, func(ctx context.Context) error {
			return s.device.Tap(ctx, s.settings.RefreshTap.X, s.settings.RefreshTap.Y)
		}},
		{StepBook, s.settings.BookSettle, func(ctx context.Context) error {
			return s.device.Tap(ctx, s.settings.BookTap.X, s.settings.BookTap.Y)
		}},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		if err := st.action(ctx); err != nil {
			if services.Classify(err) == services.KindCanceled {
				return outcome, err
			}
			outcome.Failures[st.step] = err
			logging.WarnWithContext(logger, "device action failed", "navigation_action_failed",
				logging.String("step", string(st.step)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the device connection and tap coordinates"),
				logging.String(logging.FieldImpact, "navigation may not reach the department list this iteration"),
			)
		} else {
			logger.Debug("device action done", logging.String("step", string(st.step)))
		}
		if err := s.sleeper.Sleep(ctx, st.settle); err != nil {
			return outcome, err
		}
	}
	logger.Info("navigation sequence finished",
		logging.Bool("all_actions_ok", outcome.OK()),
		logging.Int("failed_actions", len(outcome.Failures)),
	)
	return outcome, nil
}
