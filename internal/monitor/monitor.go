package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"clinicwatch/internal/config"
	"clinicwatch/internal/logging"
	"clinicwatch/internal/poller"
)

const lockFileName = "clinicwatch.lock"

// ErrAlreadyRunning is returned when another monitor holds the lock.
var ErrAlreadyRunning = errors.New("another clinicwatch instance is already running")

// Runner is the loop the monitor guards.
type Runner interface {
	Run(ctx context.Context) (poller.Report, error)
}

// Monitor enforces single-instance execution around a Runner.
type Monitor struct {
	runner   Runner
	logger   *slog.Logger
	lockPath string
	lock     *flock.Flock
	running  atomic.Bool
}

// Status represents monitor runtime information.
type Status struct {
	Running      bool
	LockFilePath string
}

// New constructs a monitor whose lock lives in cfg's state directory.
func New(cfg *config.Config, runner Runner, logger *slog.Logger) (*Monitor, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("monitor requires config and runner")
	}
	lockPath := LockPath(cfg)
	return &Monitor{
		runner:   runner,
		logger:   logging.NewComponentLogger(logger, "monitor"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the lock file location for cfg.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, lockFileName)
}

// Run acquires the lock, runs the loop to completion, and releases the lock.
func (m *Monitor) Run(ctx context.Context) (poller.Report, error) {
	if !m.running.CompareAndSwap(false, true) {
		return poller.Report{}, errors.New("monitor already running")
	}
	defer m.running.Store(false)

	ok, err := m.lock.TryLock()
	if err != nil {
		return poller.Report{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return poller.Report{}, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, m.lockPath)
	}
	defer func() {
		if err := m.lock.Unlock(); err != nil {
			m.logger.Warn("failed to release monitor lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if no clinicwatch process is running"),
			)
		}
	}()

	m.logger.Info("clinicwatch monitor started", logging.String("lock", m.lockPath))
	report, err := m.runner.Run(ctx)
	m.logger.Info("clinicwatch monitor stopped",
		logging.Int("iterations", report.Iterations),
		logging.Bool("notified", report.Stopped()),
	)
	return report, err
}

// Status returns the current monitor status.
func (m *Monitor) Status() Status {
	return Status{Running: m.running.Load(), LockFilePath: m.lockPath}
}

// LockHeld reports whether some process currently holds the lock for cfg.
func LockHeld(cfg *config.Config) (bool, error) {
	lock := flock.New(LockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("try lock: %w", err)
	}
	if !ok {
		return true, nil
	}
	if err := lock.Unlock(); err != nil {
		return false, fmt.Errorf("release trial lock: %w", err)
	}
	return false, nil
}
