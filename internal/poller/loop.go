package poller

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clinicwatch/internal/clock"
	"clinicwatch/internal/config"
	"clinicwatch/internal/fileutil"
	"clinicwatch/internal/logging"
	"clinicwatch/internal/navigator"
	"clinicwatch/internal/notifications"
	"clinicwatch/internal/perception"
	"clinicwatch/internal/screenshot"
	"clinicwatch/internal/services"
)

const (
	NavigationScreenshot   = "navigation_check.png"
	AvailabilityScreenshot = "availability_check.png"
)

// Navigator drives the app to the department list.
type Navigator interface {
	PerformNavigationSequence(ctx context.Context) (navigator.Outcome, error)
}

// Capturer acquires screenshots owned by the caller.
type Capturer interface {
	Capture(ctx context.Context, name string) (*screenshot.Screenshot, error)
}

// Classifier decides navigation and availability from an image.
type Classifier interface {
	IsNavigated(ctx context.Context, img image.Image) (perception.Result, error)
	IsAvailable(ctx context.Context, img image.Image) (perception.Result, error)
}

// Dependencies are the collaborators of a Loop.
type Dependencies struct {
	Navigator  Navigator
	Screens    Capturer
	Classifier Classifier
	Notifier   notifications.Service
	Sleeper    clock.Sleeper
	// NewCheckID overrides the per-iteration identifier source.
	NewCheckID func() string
}

// Settings holds loop timing.
type Settings struct {
	PollInterval time.Duration
	// KeepDir, when set, receives a copy of every screenshot before release.
	KeepDir string
}

// SettingsFromConfig extracts loop settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{PollInterval: cfg.PollInterval()}
}

// Loop runs the availability state machine. It is not safe for concurrent use.
type Loop struct {
	deps     Dependencies
	settings Settings
	logger   *slog.Logger
	runs     int
}

// New constructs a Loop. A nil sleeper uses the wall clock and a nil notifier
// sends nothing.
func New(deps Dependencies, settings Settings, logger *slog.Logger) *Loop {
	if deps.Sleeper == nil {
		deps.Sleeper = clock.Real{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewNoop()
	}
	if deps.NewCheckID == nil {
		deps.NewCheckID = uuid.NewString
	}
	return &Loop{
		deps:     deps,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "poller"),
	}
}

// Run repeats iterations, waiting the poll interval between them, until an
// iteration notifies or ctx ends. It returns ctx's error on interrupt.
func (l *Loop) Run(ctx context.Context) (Report, error) {
	report := Report{StartedAt: time.Now()}
	logger := logging.WithContext(ctx, l.logger)
	logger.Info("poll loop started", logging.Duration("poll_interval", l.settings.PollInterval))

	for {
		iteration, err := l.RunOnce(ctx)
		if iteration.Run > 0 {
			report.Iterations++
			report.Last = iteration
		}
		if err != nil {
			report.FinishedAt = time.Now()
			logger.Info("poll loop interrupted", logging.Int("iterations", report.Iterations))
			return report, err
		}
		if iteration.State.Terminal() {
			report.FinishedAt = time.Now()
			logger.Info("poll loop stopped",
				logging.Int("iterations", report.Iterations),
				logging.String("reason", iteration.Reason),
			)
			return report, nil
		}

		waitCtx := services.WithState(services.WithRun(ctx, iteration.Run), string(StateWait))
		logging.WithContext(waitCtx, l.logger).Info("waiting for next check",
			logging.Duration("wait", l.settings.PollInterval),
			logging.String("next_check_at", time.Now().Add(l.settings.PollInterval).Format(time.Kitchen)),
		)
		if err := l.deps.Sleeper.Sleep(ctx, l.settings.PollInterval); err != nil {
			report.FinishedAt = time.Now()
			logger.Info("poll loop interrupted", logging.Int("iterations", report.Iterations))
			return report, err
		}
	}
}

// RunOnce performs one loop body without the trailing wait. The returned
// error is non-nil only when ctx ended.
func (l *Loop) RunOnce(ctx context.Context) (Iteration, error) {
	if err := ctx.Err(); err != nil {
		return Iteration{}, err
	}
	l.runs++
	it := Iteration{
		Run:       l.runs,
		CheckID:   l.deps.NewCheckID(),
		StartedAt: time.Now(),
	}
	ctx = services.WithCheckID(services.WithRun(ctx, it.Run), it.CheckID)

	launchCtx := services.WithState(ctx, string(StateLaunch))
	logging.WithContext(launchCtx, l.logger).Info("check started")
	outcome, err := l.deps.Navigator.PerformNavigationSequence(launchCtx)
	it.Navigation = outcome
	if err != nil {
		return it, err
	}

	navCtx := services.WithState(ctx, string(StateNavigateCheck))
	navigated, err := l.classify(navCtx, NavigationScreenshot, func(ctx context.Context, img image.Image) (perception.Result, error) {
		return l.deps.Classifier.IsNavigated(ctx, img)
	})
	if isInterrupt(ctx, err) {
		return it, ctx.Err()
	}
	it.Navigated = navigated.Navigated
	it.Diverged = navigated.Diverged
	next, reason := decide(check{state: StateNavigateCheck, passed: navigated.Navigated, err: err})
	if next == StateWait {
		return l.finish(navCtx, it, next, reason, err), nil
	}

	availCtx := services.WithState(ctx, string(StateAvailabilityCheck))
	available, err := l.classify(availCtx, AvailabilityScreenshot, func(ctx context.Context, img image.Image) (perception.Result, error) {
		return l.deps.Classifier.IsAvailable(ctx, img)
	})
	if isInterrupt(ctx, err) {
		return it, ctx.Err()
	}
	it.Available = available.Available
	it.Ambiguous = available.Ambiguous
	it.Diverged = it.Diverged || available.Diverged
	if err == nil && available.Ambiguous {
		logging.WarnWithContext(logging.WithContext(availCtx, l.logger), "availability text empty; treating as available", "availability_ambiguous",
			logging.Alert("empty_ocr"),
			logging.String(logging.FieldErrorHint, "recalibrate detection.availability_region with 'clinicwatch ocr'"),
			logging.String(logging.FieldImpact, "a notification may be a false positive"),
		)
	}
	next, reason = decide(check{state: StateAvailabilityCheck, passed: available.Available, err: err})
	if next == StateWait {
		return l.finish(availCtx, it, next, reason, err), nil
	}

	stopCtx := services.WithState(ctx, string(StateNotifyAndStop))
	if err := l.deps.Notifier.NotifySlotAvailable(stopCtx); err != nil {
		it.NotifyErr = err
		logging.ErrorWithContext(logging.WithContext(stopCtx, l.logger), "slot notification failed", "notification_failed",
			logging.Error(err),
			logging.Alert("notification_failed"),
			logging.String(logging.FieldErrorHint, "check notifications.webhook_url and run 'clinicwatch test-notify'"),
		)
	}
	return l.finish(stopCtx, it, next, reason, nil), nil
}

// classify captures name, decodes it, and runs fn. The screenshot is released
// on every path.
func (l *Loop) classify(ctx context.Context, name string, fn func(context.Context, image.Image) (perception.Result, error)) (perception.Result, error) {
	shot, err := l.deps.Screens.Capture(ctx, name)
	if err != nil {
		return perception.Result{}, err
	}
	if l.settings.KeepDir != "" {
		l.keep(ctx, shot)
	}
	defer func() {
		if err := shot.Release(); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, l.logger), "screenshot release failed", "screenshot_release_failed",
				logging.Error(err),
				logging.String("path", shot.Path()),
				logging.String(logging.FieldImpact, "a stale screenshot remains in the work directory"),
			)
		}
	}()

	img, err := shot.Decode()
	if err != nil {
		return perception.Result{}, services.Wrap(services.ErrMissingScreenshot, "poller", "decode", name, err)
	}
	return fn(ctx, img)
}

func (l *Loop) keep(ctx context.Context, shot *screenshot.Screenshot) {
	logger := logging.WithContext(ctx, l.logger)
	kept, err := fileutil.KeepCopy(shot.Path(), l.settings.KeepDir, time.Now().Format("20060102-150405"))
	if err != nil {
		logging.WarnWithContext(logger, "screenshot copy failed", "screenshot_keep_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the keep directory is writable"),
			logging.String(logging.FieldImpact, "screenshot not retained for calibration"),
		)
		return
	}
	logger.Debug("screenshot kept", logging.String("path", kept))
}

func (l *Loop) finish(ctx context.Context, it Iteration, next State, reason string, err error) Iteration {
	it.State = next
	it.Reason = reason
	it.Err = err
	it.Duration = time.Since(it.StartedAt)
	logger := logging.WithContext(ctx, l.logger)
	if err != nil {
		logging.WarnWithContext(logger, "check failed", "check_failed",
			logging.Error(err),
			logging.String("error_kind", string(kindOf(err))),
			logging.String("next_state", string(next)),
			logging.String(logging.FieldImpact, "treated as no slot this iteration; retrying after the poll interval"),
		)
		return it
	}
	attrs := []logging.Attr{
		logging.String("next_state", string(next)),
		logging.String("reason", reason),
		logging.Bool("navigated", it.Navigated),
	}
	if it.Navigated {
		attrs = append(attrs, logging.Bool("available", it.Available))
	}
	logger.Info("check finished", logging.Args(attrs...)...)
	return it
}

// isInterrupt reports whether a failed step should end the iteration because
// ctx is done rather than route through decide.
func isInterrupt(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil
}
