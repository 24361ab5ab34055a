// Package textutil holds marker matching helpers for recognized text.
//
// Contains matches verbatim and is what the classifiers decide on by
// default. OCR engines emit compatibility forms and insert spaces between
// CJK glyphs; Normalize folds text to NFKC and drops all whitespace, and
// ContainsNormalized matches on that form for callers that opt in.
package textutil
