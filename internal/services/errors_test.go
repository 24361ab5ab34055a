package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"clinicwatch/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "adb", "tap", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"adb", "tap", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Kind
	}{
		{"nil", nil, services.KindNone},
		{"device", services.Wrap(services.ErrExternalTool, "adb", "tap", "", errors.New("exit 1")), services.KindDevice},
		{"device timeout", services.Wrap(services.ErrExternalTool, "adb", "pull", "", context.DeadlineExceeded), services.KindDevice},
		{"screenshot", services.Wrap(services.ErrMissingScreenshot, "screenshot", "capture", "", nil), services.KindScreenshot},
		{"ocr", services.Wrap(services.ErrOCR, "ocr", "recognize", "", errors.New("tesseract")), services.KindOCR},
		{"notification", services.Wrap(services.ErrNotification, "notify", "send", "", nil), services.KindNotification},
		{"canceled", fmt.Errorf("sleep: %w", context.Canceled), services.KindCanceled},
		{"canceled device", services.Wrap(services.ErrExternalTool, "adb", "tap", "", context.Canceled), services.KindCanceled},
		{"config", services.Wrap(services.ErrConfiguration, "config", "", "", nil), services.KindConfig},
		{"unknown", errors.New("other"), services.KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
