package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool      = errors.New("external tool error")
	ErrMissingScreenshot = errors.New("screenshot missing")
	ErrOCR               = errors.New("ocr error")
	ErrNotification      = errors.New("notification error")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
	ErrTransient         = errors.New("transient failure")
)

// Kind classifies a failure for the poll loop's decision point.
type Kind string

const (
	KindNone         Kind = ""
	KindDevice       Kind = "device"
	KindScreenshot   Kind = "screenshot"
	KindOCR          Kind = "ocr"
	KindNotification Kind = "notification"
	KindCanceled     Kind = "canceled"
	KindConfig       Kind = "config"
	KindUnknown      Kind = "unknown"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error onto the Kind the poll loop acts on. Cancellation
// wins over every other marker so an operator interrupt is never mistaken for
// a device fault.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrExternalTool):
		return KindCanceled
	case errors.Is(err, ErrMissingScreenshot):
		return KindScreenshot
	case errors.Is(err, ErrOCR):
		return KindOCR
	case errors.Is(err, ErrNotification):
		return KindNotification
	case errors.Is(err, ErrExternalTool):
		return KindDevice
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrValidation):
		return KindConfig
	default:
		return KindUnknown
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
