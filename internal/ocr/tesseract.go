package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"clinicwatch/internal/services"
)

// Tesseract implements Engine with a fresh gosseract client per call.
type Tesseract struct {
	clientFactory func() *gosseract.Client
	pageSegMode   int
}

// TesseractOption configures the engine.
type TesseractOption func(*Tesseract)

// WithPageSegMode selects a tesseract page segmentation mode. Zero keeps the
// engine default.
func WithPageSegMode(mode int) TesseractOption {
	return func(t *Tesseract) {
		t.pageSegMode = mode
	}
}

// NewTesseract constructs a tesseract-backed engine.
func NewTesseract(opts ...TesseractOption) *Tesseract {
	engine := &Tesseract{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Recognize returns the trimmed text tesseract extracts from img. lang may
// combine models with "+", as on the tesseract command line.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil || img.Bounds().Empty() {
		return "", services.Wrap(services.ErrOCR, "ocr", "recognize", "empty image", nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", services.Wrap(services.ErrOCR, "ocr", "encode image", "", err)
	}

	client := t.clientFactory()
	defer client.Close()

	if langs := splitLanguages(lang); len(langs) > 0 {
		if err := client.SetLanguage(langs...); err != nil {
			return "", services.Wrap(services.ErrOCR, "ocr", "set language", lang, err)
		}
	}
	if t.pageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(t.pageSegMode)); err != nil {
			return "", services.Wrap(services.ErrOCR, "ocr", "set page segmentation mode", fmt.Sprint(t.pageSegMode), err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", services.Wrap(services.ErrOCR, "ocr", "set image", "", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", services.Wrap(services.ErrOCR, "ocr", "recognize", lang, err)
	}
	return strings.TrimSpace(text), nil
}

// Version reports the linked tesseract library version.
func Version() string {
	return gosseract.Version()
}

func splitLanguages(lang string) []string {
	fields := strings.FieldsFunc(lang, func(r rune) bool { return r == '+' || r == ',' })
	langs := fields[:0]
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			langs = append(langs, field)
		}
	}
	return langs
}
