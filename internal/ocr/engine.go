package ocr

import (
	"context"
	"image"
)

// Engine extracts text from an image using the named language model.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, img image.Image, lang string) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	return f(ctx, img, lang)
}
