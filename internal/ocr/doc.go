// Package ocr recognizes text in decoded screen images.
//
// Engine is the seam the classifiers depend on. The tesseract implementation
// links libtesseract through gosseract and needs the configured traineddata
// (chi_tra by default) installed alongside it.
package ocr
