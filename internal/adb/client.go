package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"clinicwatch/internal/services"
	"clinicwatch/internal/textutil"
)

const (
	component = "adb"
	// outputExcerptRunes bounds the tool output carried in error messages.
	outputExcerptRunes = 256
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithSerial targets a specific device when several are attached.
func WithSerial(serial string) Option {
	return func(c *Client) {
		c.serial = strings.TrimSpace(serial)
	}
}

// Client wraps adb CLI interactions.
type Client struct {
	binary  string
	serial  string
	timeout time.Duration
	exec    Executor
}

// New constructs an adb client. A non-positive timeout disables the per-command bound.
func New(binary string, timeout time.Duration, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("adb binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: timeout,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// StartActivity launches the given package/activity component.
func (c *Client) StartActivity(ctx context.Context, activity string) error {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return services.Wrap(services.ErrValidation, component, "start activity", "component required", nil)
	}
	out, err := c.run(ctx, "start activity", "shell", "am", "start", "-n", activity)
	if err != nil {
		return err
	}
	// am start reports resolution failures on stdout with a zero exit status.
	if msg := amError(out); msg != "" {
		return services.Wrap(services.ErrExternalTool, component, "start activity", msg, nil)
	}
	return nil
}

// Tap simulates a touch at the given screen coordinate.
func (c *Client) Tap(ctx context.Context, x, y int) error {
	_, err := c.run(ctx, "tap", "shell", "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// Screencap writes a PNG screenshot to remotePath on the device.
func (c *Client) Screencap(ctx context.Context, remotePath string) error {
	_, err := c.run(ctx, "screencap", "shell", "screencap", "-p", remotePath)
	return err
}

// Pull copies remotePath from the device to localPath.
func (c *Client) Pull(ctx context.Context, remotePath, localPath string) error {
	_, err := c.run(ctx, "pull", "pull", remotePath, localPath)
	return err
}

// Remove deletes remotePath on the device. Missing files are not an error.
func (c *Client) Remove(ctx context.Context, remotePath string) error {
	_, err := c.run(ctx, "remove", "shell", "rm", "-f", remotePath)
	return err
}

// State returns the adb connection state of the target device (for example
// "device", "offline", or "unauthorized").
func (c *Client) State(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "get-state", "get-state")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Client) run(ctx context.Context, operation string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, component, operation, "", err)
	}
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.exec.Run(runCtx, c.binary, c.args(args))
	if err != nil {
		if ctxErr := runCtx.Err(); ctxErr != nil {
			// Prefer the parent's cancellation so an interrupt is not reported as a timeout.
			if parentErr := ctx.Err(); parentErr != nil {
				ctxErr = parentErr
			}
			return out, services.Wrap(services.ErrExternalTool, component, operation, "", ctxErr)
		}
		return out, services.Wrap(services.ErrExternalTool, component, operation, summarizeOutput(out), err)
	}
	return out, nil
}

func (c *Client) args(args []string) []string {
	if c.serial == "" {
		return args
	}
	full := make([]string, 0, len(args)+2)
	full = append(full, "-s", c.serial)
	return append(full, args...)
}

func amError(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Error:") || strings.HasPrefix(line, "Error type") {
			return line
		}
	}
	return ""
}

func summarizeOutput(out []byte) string {
	return textutil.Excerpt(string(bytes.ToValidUTF8(out, nil)), outputExcerptRunes)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return output.Bytes(), fmt.Errorf("run %s: %w", binary, err)
	}
	return output.Bytes(), nil
}
