package services_test

import (
	"context"
	"testing"

	"clinicwatch/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRun(ctx, 7)
	ctx = services.WithCheckID(ctx, "check-123")
	ctx = services.WithState(ctx, "NAVIGATE_CHECK")

	if run, ok := services.RunFromContext(ctx); !ok || run != 7 {
		t.Fatalf("unexpected run: %v %v", run, ok)
	}
	if id, ok := services.CheckIDFromContext(ctx); !ok || id != "check-123" {
		t.Fatalf("unexpected check id: %v %v", id, ok)
	}
	if state, ok := services.StateFromContext(ctx); !ok || state != "NAVIGATE_CHECK" {
		t.Fatalf("unexpected state: %v %v", state, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithState(ctx, "")
	ctx = services.WithCheckID(ctx, "")
	if _, ok := services.StateFromContext(ctx); ok {
		t.Fatal("expected no state for blank value")
	}
	if _, ok := services.CheckIDFromContext(ctx); ok {
		t.Fatal("expected no check id for blank value")
	}
	if _, ok := services.RunFromContext(ctx); ok {
		t.Fatal("expected no run counter")
	}
}
