// Package perception decides what the target app is showing from a screenshot.
//
// Both classifiers reduce to substring tests over the recognized text.
// IsNavigated looks for any navigation marker in the full frame. IsAvailable
// crops the result list and reports available unless the negative indicator
// is present, which means empty or garbled text counts as available; such
// results are flagged Ambiguous so the caller can raise an alert.
//
// Matching is verbatim unless Settings.NormalizeText is set. Either way the
// other form is also checked, and a disagreement is reported as Diverged and
// logged, since it usually means tesseract spaced out the CJK glyphs.
package perception
