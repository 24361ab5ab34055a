package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDevice(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

// RequireWebhook reports an error when no webhook URL is configured. Commands
// that deliver notifications call it; calibration commands do not.
func (c *Config) RequireWebhook() error {
	if strings.TrimSpace(c.Notifications.WebhookURL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("notifications.webhook_url is required. Set %s or edit %s (create with 'clinicwatch config init')", WebhookEnvVar, defaultPath)
	}
	return nil
}

func (c *Config) validateDevice() error {
	if c.Device.Package == "" {
		return errors.New("device.package must be set")
	}
	if c.Device.Activity == "" {
		return errors.New("device.activity must be set")
	}
	if err := validatePoint("device.refresh_tap", c.Device.RefreshTap); err != nil {
		return err
	}
	if err := validatePoint("device.book_tap", c.Device.BookTap); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Device.RemoteDir, "/") {
		return fmt.Errorf("device.remote_dir must be an absolute device path, got %q", c.Device.RemoteDir)
	}
	if c.Device.CommandTimeout <= 0 {
		return errors.New("device.command_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateTiming() error {
	return ensurePositiveMap(map[string]int{
		"timing.launch_settle_seconds":  c.Timing.LaunchSettleSeconds,
		"timing.refresh_settle_seconds": c.Timing.RefreshSettleSeconds,
		"timing.book_settle_seconds":    c.Timing.BookSettleSeconds,
		"timing.poll_interval_minutes":  c.Timing.PollIntervalMinutes,
	})
}

func (c *Config) validateOCR() error {
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("ocr.page_seg_mode must be between 0 and 13, got %d", c.OCR.PageSegMode)
	}
	if c.OCR.CropScale < 0 {
		return fmt.Errorf("ocr.crop_scale must not be negative, got %g", c.OCR.CropScale)
	}
	if c.OCR.CropScale > 8 {
		return fmt.Errorf("ocr.crop_scale must not exceed 8, got %g", c.OCR.CropScale)
	}
	return nil
}

func (c *Config) validateDetection() error {
	if len(c.Detection.NavigationMarkers) == 0 {
		return errors.New("detection.navigation_markers must contain at least one marker")
	}
	if c.Detection.NegativeIndicator == "" {
		return errors.New("detection.negative_indicator must be set")
	}
	r := c.Detection.AvailabilityRegion
	if r.Left < 0 || r.Top < 0 {
		return fmt.Errorf("detection.availability_region must not have negative bounds, got %+v", r)
	}
	if r.Left >= r.Right {
		return fmt.Errorf("detection.availability_region left (%d) must be less than right (%d)", r.Left, r.Right)
	}
	if r.Top >= r.Bottom {
		return fmt.Errorf("detection.availability_region top (%d) must be less than bottom (%d)", r.Top, r.Bottom)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	switch c.Notifications.Provider {
	case ProviderDiscord, ProviderNtfy:
	default:
		return fmt.Errorf("notifications.provider must be %q or %q, got %q", ProviderDiscord, ProviderNtfy, c.Notifications.Provider)
	}
	if url := c.Notifications.WebhookURL; url != "" && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("notifications.webhook_url must start with https://, got %q", url)
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func validatePoint(name string, p Point) error {
	if p.X < 0 || p.Y < 0 {
		return fmt.Errorf("%s must not be negative, got (%d, %d)", name, p.X, p.Y)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
