package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"clinicwatch/internal/logging"
	"clinicwatch/internal/services"
)

// Device is the subset of the device driver used to acquire screenshots.
type Device interface {
	Screencap(ctx context.Context, remotePath string) error
	Pull(ctx context.Context, remotePath, localPath string) error
	Remove(ctx context.Context, remotePath string) error
}

// Acquirer captures screenshots from a device into a local directory.
type Acquirer struct {
	device    Device
	remoteDir string
	localDir  string
	logger    *slog.Logger
}

// NewAcquirer constructs an Acquirer. remoteDir is a device path; localDir is
// where pulled files are stored until released.
func NewAcquirer(device Device, remoteDir, localDir string, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		device:    device,
		remoteDir: strings.TrimRight(remoteDir, "/"),
		localDir:  localDir,
		logger:    logging.NewComponentLogger(logger, "screenshot"),
	}
}

// Capture takes a screenshot named name and returns the local copy. The remote
// file is deleted whether or not the pull succeeded; the pull result is not
// verified before the delete is issued. A missing local file yields
// services.ErrMissingScreenshot.
func (a *Acquirer) Capture(ctx context.Context, name string) (*Screenshot, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, services.Wrap(services.ErrValidation, "screenshot", "capture", "file name required", nil)
	}
	remotePath := path.Join(a.remoteDir, name)
	localPath := filepath.Join(a.localDir, name)
	logger := logging.WithContext(ctx, a.logger).With(
		logging.String("remote_path", remotePath),
		logging.String("local_path", localPath),
	)

	// A leftover file from an interrupted run would otherwise pass the existence check.
	if err := os.Remove(localPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrTransient, "screenshot", "capture", "remove stale local file", err)
	}

	if err := a.device.Screencap(ctx, remotePath); err != nil {
		a.warn(logger, "screen capture failed", "screencap_failed", err)
	}
	if err := a.device.Pull(ctx, remotePath, localPath); err != nil {
		a.warn(logger, "screenshot pull failed", "screenshot_pull_failed", err)
	}
	// Remote cleanup must run even after an interrupt; the driver's own
	// command timeout bounds it.
	if err := a.device.Remove(context.WithoutCancel(ctx), remotePath); err != nil {
		a.warn(logger, "remote screenshot delete failed", "screenshot_remote_delete_failed", err)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrMissingScreenshot, "screenshot", "capture", name, nil)
		}
		return nil, services.Wrap(services.ErrMissingScreenshot, "screenshot", "capture", name, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrMissingScreenshot, "screenshot", "capture", name+" is a directory", nil)
	}
	logger.Debug("screenshot captured", logging.Int64("bytes", info.Size()))
	return &Screenshot{path: localPath}, nil
}

func (a *Acquirer) warn(logger *slog.Logger, msg, eventType string, err error) {
	logging.WarnWithContext(logger, msg, eventType,
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check that the device is connected and authorized (adb devices)"),
		logging.String(logging.FieldImpact, "screenshot may be missing or stale; the check treats it as not found"),
	)
}

// Screenshot is a local screenshot file owned by one loop iteration.
type Screenshot struct {
	path string

	once       sync.Once
	releaseErr error
}

// Open wraps an existing local image file, for example a saved calibration
// screenshot. Release deletes it only when owned is true.
func Open(localPath string, owned bool) (*Screenshot, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open screenshot: %s is a directory", localPath)
	}
	s := &Screenshot{path: localPath}
	if !owned {
		s.once.Do(func() {})
	}
	return s, nil
}

// Path returns the local file path.
func (s *Screenshot) Path() string {
	return s.path
}

// Decode reads and decodes the image file.
func (s *Screenshot) Decode() (image.Image, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot %s: %w", filepath.Base(s.path), err)
	}
	return img, nil
}

// Release deletes the local file. It is safe to call more than once and
// treats an already-missing file as released.
func (s *Screenshot) Release() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.releaseErr = fmt.Errorf("release screenshot: %w", err)
		}
	})
	return s.releaseErr
}
