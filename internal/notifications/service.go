package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clinicwatch/internal/config"
	"clinicwatch/internal/services"
)

const userAgent = "clinicwatch/0.1.0"

const testMessage = "🧪 clinicwatch notification test"

// Service defines the notification surface used by the poll loop.
type Service interface {
	NotifySlotAvailable(ctx context.Context) error
	TestNotification(ctx context.Context) error
}

// NewService builds a webhook-backed service for the configured provider.
// When no webhook URL is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	endpoint := strings.TrimSpace(cfg.Notifications.WebhookURL)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hook := webhook{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		username: cfg.Notifications.Username,
		message:  cfg.Notifications.Message,
	}
	if cfg.Notifications.Provider == config.ProviderNtfy {
		return &ntfyService{webhook: hook}
	}
	return &discordService{webhook: hook}
}

// NewNoop returns a service that sends nothing.
func NewNoop() Service {
	return noopService{}
}

type webhook struct {
	endpoint string
	client   *http.Client
	username string
	message  string
}

func (w webhook) post(ctx context.Context, provider string, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrNotification, provider, "build request", "", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrNotification, provider, "send", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrNotification, provider, "send",
			fmt.Sprintf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type discordService struct {
	webhook
}

type discordPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

func (d *discordService) NotifySlotAvailable(ctx context.Context) error {
	return d.send(ctx, d.message)
}

func (d *discordService) TestNotification(ctx context.Context) error {
	return d.send(ctx, testMessage)
}

func (d *discordService) send(ctx context.Context, content string) error {
	body, err := json.Marshal(discordPayload{Content: content, Username: d.username})
	if err != nil {
		return services.Wrap(services.ErrNotification, config.ProviderDiscord, "encode payload", "", err)
	}
	return d.post(ctx, config.ProviderDiscord, body, map[string]string{
		"Content-Type": "application/json",
	})
}

type ntfyService struct {
	webhook
}

func (n *ntfyService) NotifySlotAvailable(ctx context.Context) error {
	return n.send(ctx, n.username+" - Slot Available", n.message, "urgent")
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, n.username+" - Test", testMessage, "low")
}

func (n *ntfyService) send(ctx context.Context, title, message, priority string) error {
	return n.post(ctx, config.ProviderNtfy, []byte(message), map[string]string{
		"Content-Type": "text/plain; charset=utf-8",
		"Title":        title,
		"Tags":         "clinicwatch,slot",
		"Priority":     priority,
	})
}

type noopService struct{}

func (noopService) NotifySlotAvailable(context.Context) error { return nil }
func (noopService) TestNotification(context.Context) error    { return nil }
