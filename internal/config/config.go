package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Point is a screen coordinate in device pixels.
type Point struct {
	X int `toml:"x"`
	Y int `toml:"y"`
}

// Region is a crop rectangle on a screenshot of the calibrated resolution.
type Region struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

// Rect converts the region into an image rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Paths contains local directories used by the poller.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Device contains adb and target application settings.
type Device struct {
	ADBBinary      string `toml:"adb_binary"`
	Serial         string `toml:"serial"`
	Package        string `toml:"package"`
	Activity       string `toml:"activity"`
	RefreshTap     Point  `toml:"refresh_tap"`
	BookTap        Point  `toml:"book_tap"`
	RemoteDir      string `toml:"remote_dir"`
	CommandTimeout int    `toml:"command_timeout"`
}

// Timing contains the fixed waits of the poll loop.
type Timing struct {
	LaunchSettleSeconds  int `toml:"launch_settle_seconds"`
	RefreshSettleSeconds int `toml:"refresh_settle_seconds"`
	BookSettleSeconds    int `toml:"book_settle_seconds"`
	PollIntervalMinutes  int `toml:"poll_interval_minutes"`
}

// OCR contains text recognition settings.
type OCR struct {
	Language    string  `toml:"language"`
	PageSegMode int     `toml:"page_seg_mode"`
	CropScale   float64 `toml:"crop_scale"`
}

// Detection contains the strings and region the classifiers match against.
type Detection struct {
	NavigationMarkers  []string `toml:"navigation_markers"`
	NegativeIndicator  string   `toml:"negative_indicator"`
	AvailabilityRegion Region   `toml:"availability_region"`
	// NormalizeText matches on NFKC text with whitespace removed instead of
	// the raw OCR output.
	NormalizeText      bool     `toml:"normalize_text"`
}

// Notifications contains webhook delivery settings.
type Notifications struct {
	Provider       string `toml:"provider"`
	WebhookURL     string `toml:"webhook_url"`
	Username       string `toml:"username"`
	Message        string `toml:"message"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for clinicwatch.
//
// Configuration sections by subsystem:
//   - Paths: screenshot work directory, lock/state directory, logs
//   - Device: adb binary, device serial, app identifiers, tap coordinates
//   - Timing: settle waits after each action and the poll interval
//   - OCR: tesseract language model and crop preprocessing
//   - Detection: navigation markers, negative indicator, crop region
//   - Notifications: webhook provider, URL, and message
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Device        Device        `toml:"device"`
	Timing        Timing        `toml:"timing"`
	OCR           OCR           `toml:"ocr"`
	Detection     Detection     `toml:"detection"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clinicwatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the poller writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CommandTimeout returns the per-command adb timeout.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Device.CommandTimeout) * time.Second
}

// PollInterval returns the wait between full iterations.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Timing.PollIntervalMinutes) * time.Minute
}

// Component returns the activity component passed to `am start -n`.
func (c *Config) Component() string {
	return c.Device.Package + "/" + c.Device.Activity
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
