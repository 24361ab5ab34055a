package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDevice()
	c.normalizeOCR()
	c.normalizeDetection()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDevice() {
	c.Device.ADBBinary = strings.TrimSpace(c.Device.ADBBinary)
	if c.Device.ADBBinary == "" {
		c.Device.ADBBinary = defaultADBBinary
	}
	c.Device.Serial = strings.TrimSpace(c.Device.Serial)
	c.Device.Package = strings.TrimSpace(c.Device.Package)
	c.Device.Activity = strings.TrimSpace(c.Device.Activity)
	c.Device.RemoteDir = strings.TrimRight(strings.TrimSpace(c.Device.RemoteDir), "/")
	if c.Device.RemoteDir == "" {
		c.Device.RemoteDir = defaultRemoteDir
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if c.OCR.CropScale == 0 {
		c.OCR.CropScale = defaultCropScale
	}
}

func (c *Config) normalizeDetection() {
	markers := make([]string, 0, len(c.Detection.NavigationMarkers))
	seen := make(map[string]struct{}, len(c.Detection.NavigationMarkers))
	for _, marker := range c.Detection.NavigationMarkers {
		marker = strings.TrimSpace(marker)
		if marker == "" {
			continue
		}
		if _, exists := seen[marker]; exists {
			continue
		}
		seen[marker] = struct{}{}
		markers = append(markers, marker)
	}
	c.Detection.NavigationMarkers = markers
	c.Detection.NegativeIndicator = strings.TrimSpace(c.Detection.NegativeIndicator)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.Provider = strings.ToLower(strings.TrimSpace(c.Notifications.Provider))
	if c.Notifications.Provider == "" {
		c.Notifications.Provider = defaultProvider
	}
	c.Notifications.WebhookURL = strings.TrimSpace(c.Notifications.WebhookURL)
	if c.Notifications.WebhookURL == "" {
		if value, ok := os.LookupEnv(WebhookEnvVar); ok {
			c.Notifications.WebhookURL = strings.TrimSpace(value)
		}
	}
	c.Notifications.Username = strings.TrimSpace(c.Notifications.Username)
	if c.Notifications.Username == "" {
		c.Notifications.Username = defaultUsername
	}
	if strings.TrimSpace(c.Notifications.Message) == "" {
		c.Notifications.Message = defaultMessage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
