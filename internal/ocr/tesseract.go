//go:build cgo

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text using the gosseract client. A fresh client is
// created per image.
type Tesseract struct {
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a Tesseract-backed recognizer.
func NewTesseract() *Tesseract {
	return &Tesseract{clientFactory: gosseract.NewClient}
}

// Available reports whether this build can run OCR.
func Available() bool { return true }

func (t *Tesseract) Recognize(ctx context.Context, image []byte, languages ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := t.clientFactory()
	defer c.Close()

	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
