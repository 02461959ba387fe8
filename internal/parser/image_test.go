package parser

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

type fakeRecognizer struct {
	img   image.Image
	langs []string
	text  string
	err   error
}

func (f *fakeRecognizer) Recognize(_ context.Context, data []byte, languages ...string) (string, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	f.img = img
	f.langs = languages
	return f.text, f.err
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(10, 10, 14, 13))
	for y := 10; y < 13; y++ {
		for x := 10; x < 14; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return writeFile(t, name, buf.Bytes())
}

func TestImageParser_SendsGrayscaleToOCR(t *testing.T) {
	path := writePNG(t, "scan.png")
	ocr := &fakeRecognizer{text: "Hello\nworld\n"}
	p := &ImageParser{OCR: ocr, Language: "eng+hin"}

	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello\nworld\n" {
		t.Errorf("expected recognizer text, got %q", got)
	}
	if _, ok := ocr.img.(*image.Gray); !ok {
		t.Errorf("expected grayscale image, got %T", ocr.img)
	}
	if b := ocr.img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("expected 4x3 image, got %v", b)
	}
	if len(ocr.langs) != 2 || ocr.langs[0] != "eng" || ocr.langs[1] != "hin" {
		t.Errorf("expected [eng hin], got %v", ocr.langs)
	}
}

func TestImageParser_NoRecognizer(t *testing.T) {
	path := writePNG(t, "scan.png")
	p := &ImageParser{}
	if _, err := p.Parse(context.Background(), path); !errors.Is(err, ErrNoRecognizer) {
		t.Fatalf("expected ErrNoRecognizer, got %v", err)
	}
}

func TestImageParser_UndecodableImage(t *testing.T) {
	path := writeFile(t, "broken.jpg", []byte("not an image"))
	p := &ImageParser{OCR: &fakeRecognizer{}}
	if _, err := p.Parse(context.Background(), path); err == nil {
		t.Fatal("expected error for undecodable image")
	}
}

func TestImageParser_RecognizerError(t *testing.T) {
	path := writePNG(t, "scan.png")
	boom := errors.New("tesseract failed")
	p := &ImageParser{OCR: &fakeRecognizer{err: boom}}
	if _, err := p.Parse(context.Background(), path); !errors.Is(err, boom) {
		t.Fatalf("expected recognizer error, got %v", err)
	}
}

func TestGrayscale_Luminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	gray := Grayscale(img)
	if gray.GrayAt(0, 0).Y != 255 {
		t.Errorf("expected white to stay 255, got %d", gray.GrayAt(0, 0).Y)
	}
}
