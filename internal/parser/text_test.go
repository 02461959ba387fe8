package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTextParser_ReturnsContentVerbatim(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("  Line one.\nLine two.\n"))
	p := &TextParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "  Line one.\nLine two.\n" {
		t.Errorf("expected content unchanged, got %q", got)
	}
}

func TestTextParser_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)
	p := &TextParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestTextParser_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "latin1.txt", []byte{'C', 'a', 'f', 0xe9})
	p := &TextParser{}
	if _, err := p.Parse(context.Background(), path); err == nil {
		t.Fatal("expected error for invalid utf-8")
	}
}

func TestTextParser_MissingFile(t *testing.T) {
	p := &TextParser{}
	if _, err := p.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
