// Package ocr recognizes text in images with Tesseract. Builds without cgo
// get a stub that always fails with ErrUnavailable.
package ocr

import "errors"

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr: tesseract not available in this build")
