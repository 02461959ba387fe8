package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	_ "image/jpeg"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Recognizer runs optical character recognition over an encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, languages ...string) (string, error)
}

// ErrNoRecognizer is returned when an image is extracted without an OCR engine.
var ErrNoRecognizer = errors.New("no ocr engine configured")

// ImageParser decodes an image, converts it to grayscale and hands it to OCR.
type ImageParser struct {
	OCR Recognizer
	// Language uses tesseract's "eng+hin" form.
	Language string
}

func (p *ImageParser) Parse(ctx context.Context, path string) (string, error) {
	if p.OCR == nil {
		return "", ErrNoRecognizer
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Grayscale(img)); err != nil {
		return "", fmt.Errorf("encode grayscale: %w", err)
	}

	var langs []string
	for _, l := range strings.Split(p.Language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return p.OCR.Recognize(ctx, buf.Bytes(), langs...)
}

// Grayscale returns a single-channel copy of img.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
