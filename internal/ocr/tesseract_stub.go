//go:build !cgo

package ocr

import "context"

// Tesseract is unavailable without cgo.
type Tesseract struct{}

// NewTesseract returns a recognizer that always fails.
func NewTesseract() *Tesseract { return &Tesseract{} }

// Available reports whether this build can run OCR.
func Available() bool { return false }

func (t *Tesseract) Recognize(context.Context, []byte, ...string) (string, error) {
	return "", ErrUnavailable
}
