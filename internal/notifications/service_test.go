package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicwatch/internal/config"
	"clinicwatch/internal/notifications"
	"clinicwatch/internal/services"
	"clinicwatch/internal/testsupport"
)

type capturedRequest struct {
	method      string
	contentType string
	title       string
	priority    string
	body        []byte
}

func newCaptureServer(t *testing.T, status int, captured *[]capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		*captured = append(*captured, capturedRequest{
			method:      r.Method,
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("Title"),
			priority:    r.Header.Get("Priority"),
			body:        body,
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewServiceReturnsNoopWhenWebhookMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.WebhookURL = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySlotAvailable(context.Background()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestDiscordNotifySlotAvailable(t *testing.T) {
	var captured []capturedRequest
	server := newCaptureServer(t, http.StatusNoContent, &captured)

	cfg := config.Default()
	cfg.Notifications.WebhookURL = server.URL

	if err := notifications.NewService(&cfg).NotifySlotAvailable(context.Background()); err != nil {
		t.Fatalf("NotifySlotAvailable: %v", err)
	}
	if len(captured) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(captured))
	}
	req := captured[0]
	if req.method != http.MethodPost || req.contentType != "application/json" {
		t.Fatalf("unexpected request %s %s", req.method, req.contentType)
	}
	var payload map[string]string
	if err := json.Unmarshal(req.body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["content"] != "【！！！】針灸科可能有名額！請立即檢查！ @everyone" {
		t.Fatalf("unexpected content %q", payload["content"])
	}
	if payload["username"] != "中醫診所預約監察員" {
		t.Fatalf("unexpected username %q", payload["username"])
	}
}

func TestNtfyNotifySlotAvailable(t *testing.T) {
	var captured []capturedRequest
	server := newCaptureServer(t, http.StatusOK, &captured)

	cfg := testsupport.NewConfig(t, testsupport.WithProvider(config.ProviderNtfy), testsupport.WithWebhookURL(server.URL))
	cfg.Notifications.Message = "slot open"

	if err := notifications.NewService(cfg).NotifySlotAvailable(context.Background()); err != nil {
		t.Fatalf("NotifySlotAvailable: %v", err)
	}
	req := captured[0]
	if string(req.body) != "slot open" {
		t.Fatalf("unexpected body %q", req.body)
	}
	if req.title != "中醫診所預約監察員 - Slot Available" || req.priority != "urgent" {
		t.Fatalf("unexpected headers title=%q priority=%q", req.title, req.priority)
	}
}

func TestTestNotification(t *testing.T) {
	var captured []capturedRequest
	server := newCaptureServer(t, http.StatusOK, &captured)

	cfg := config.Default()
	cfg.Notifications.WebhookURL = server.URL
	if err := notifications.NewService(&cfg).TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(captured[0].body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["content"] == cfg.Notifications.Message {
		t.Fatal("test notification must not send the slot alert")
	}
}

func TestNotifyNon2xxIsNotificationError(t *testing.T) {
	var captured []capturedRequest
	server := newCaptureServer(t, http.StatusBadRequest, &captured)

	cfg := config.Default()
	cfg.Notifications.WebhookURL = server.URL
	err := notifications.NewService(&cfg).NotifySlotAvailable(context.Background())
	if !errors.Is(err, services.ErrNotification) {
		t.Fatalf("expected ErrNotification, got %v", err)
	}
	if services.Classify(err) != services.KindNotification {
		t.Fatalf("Classify = %q", services.Classify(err))
	}
}

func TestNotifyUnreachableIsNotificationError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookURL = url
	if err := notifications.NewService(&cfg).NotifySlotAvailable(context.Background()); !errors.Is(err, services.ErrNotification) {
		t.Fatalf("expected ErrNotification, got %v", err)
	}
}
