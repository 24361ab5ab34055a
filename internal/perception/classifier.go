package perception

import (
	"context"
	"image"
	"log/slog"
	"strings"

	"clinicwatch/internal/config"
	"clinicwatch/internal/logging"
	"clinicwatch/internal/ocr"
	"clinicwatch/internal/services"
	"clinicwatch/internal/textutil"
)

const excerptRunes = 80

// Settings holds the detection parameters fixed at startup.
type Settings struct {
	Language          string
	NavigationMarkers []string
	NegativeIndicator string
	Region            image.Rectangle
	CropScale         float64
	NormalizeText     bool
}

// SettingsFromConfig extracts classifier settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Language:          cfg.OCR.Language,
		NavigationMarkers: append([]string(nil), cfg.Detection.NavigationMarkers...),
		NegativeIndicator: cfg.Detection.NegativeIndicator,
		Region:            cfg.Detection.AvailabilityRegion.Rect(),
		CropScale:         cfg.OCR.CropScale,
		NormalizeText:     cfg.Detection.NormalizeText,
	}
}

// Result is the outcome of one classification.
type Result struct {
	Navigated bool
	Available bool
	// Text is the raw recognized text.
	Text string
	// Ambiguous is set when the recognized text is empty or whitespace.
	Ambiguous bool
	// Diverged is set when verbatim and normalized matching disagree.
	Diverged bool
}

// Classifier turns screenshots into navigation and availability decisions.
type Classifier struct {
	engine   ocr.Engine
	settings Settings
	logger   *slog.Logger
}

// NewClassifier constructs a classifier over the given OCR engine.
func NewClassifier(engine ocr.Engine, settings Settings, logger *slog.Logger) *Classifier {
	return &Classifier{
		engine:   engine,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "perception"),
	}
}

// IsNavigated runs full-frame OCR and reports whether any navigation marker
// is present.
func (c *Classifier) IsNavigated(ctx context.Context, img image.Image) (Result, error) {
	text, err := c.recognize(ctx, img)
	if err != nil {
		return Result{}, err
	}
	navigated, diverged := c.match(text, c.settings.NavigationMarkers)
	result := Result{
		Navigated: navigated,
		Text:      text,
		Ambiguous: strings.TrimSpace(text) == "",
		Diverged:  diverged,
	}
	logger := logging.WithContext(ctx, c.logger)
	if diverged {
		c.warnDiverged(logger, "navigation markers", text)
	}
	logger.Debug("navigation classified",
		logging.Bool("navigated", result.Navigated),
		logging.Bool("ambiguous", result.Ambiguous),
		logging.String("text", textutil.Excerpt(text, excerptRunes)),
	)
	return result, nil
}

// IsAvailable crops the result list region, runs OCR, and reports available
// unless the negative indicator is present.
func (c *Classifier) IsAvailable(ctx context.Context, img image.Image) (Result, error) {
	if img == nil {
		return Result{}, services.Wrap(services.ErrOCR, "perception", "availability", "no image", nil)
	}
	cropped, err := CropScaled(img, c.settings.Region, c.settings.CropScale)
	if err != nil {
		return Result{}, services.Wrap(services.ErrOCR, "perception", "crop", "", err)
	}
	text, err := c.recognize(ctx, cropped)
	if err != nil {
		return Result{}, err
	}
	blocked, diverged := c.match(text, []string{c.settings.NegativeIndicator})
	result := Result{
		Available: !blocked,
		Text:      text,
		Ambiguous: strings.TrimSpace(text) == "",
		Diverged:  diverged,
	}
	logger := logging.WithContext(ctx, c.logger)
	if diverged {
		c.warnDiverged(logger, "negative indicator", text)
	}
	logger.Debug("availability classified",
		logging.Bool("available", result.Available),
		logging.Bool("ambiguous", result.Ambiguous),
		logging.String("text", textutil.Excerpt(text, excerptRunes)),
	)
	return result, nil
}

func (c *Classifier) recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil {
		return "", services.Wrap(services.ErrOCR, "perception", "recognize", "no image", nil)
	}
	text, err := c.engine.Recognize(ctx, img, c.settings.Language)
	if err != nil {
		if services.Classify(err) == services.KindCanceled {
			return "", err
		}
		return "", services.Wrap(services.ErrOCR, "perception", "recognize", "", err)
	}
	return text, nil
}

// match decides on verbatim or normalized containment per settings and
// reports whether the two disagree.
func (c *Classifier) match(text string, needles []string) (matched, diverged bool) {
	verbatim := ContainsAny(text, needles)
	normalized := containsAnyNormalized(text, needles)
	if c.settings.NormalizeText {
		return normalized, verbatim != normalized
	}
	return verbatim, verbatim != normalized
}

func (c *Classifier) warnDiverged(logger *slog.Logger, subject, text string) {
	mode := "verbatim"
	if c.settings.NormalizeText {
		mode = "normalized"
	}
	logging.WarnWithContext(logger, subject+" match depends on whitespace", "ocr_match_diverged",
		logging.Alert("ocr_spacing"),
		logging.String("match_mode", mode),
		logging.String("text", textutil.Excerpt(text, excerptRunes)),
		logging.String(logging.FieldErrorHint, "inspect the screenshot with 'clinicwatch ocr --text' and review detection.normalize_text"),
		logging.String(logging.FieldImpact, "decision taken on "+mode+" text"),
	)
}

// ContainsAny reports whether text contains at least one non-blank marker
// verbatim.
func ContainsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if textutil.Contains(text, marker) {
			return true
		}
	}
	return false
}

func containsAnyNormalized(text string, markers []string) bool {
	for _, marker := range markers {
		if textutil.ContainsNormalized(text, marker) {
			return true
		}
	}
	return false
}
