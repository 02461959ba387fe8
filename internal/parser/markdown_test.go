package parser

import (
	"context"
	"strings"
	"testing"
)

func TestMarkdownParser_DropsMarkup(t *testing.T) {
	input := "# Title\n\nSome *emph* text\nnext line.\n\n- item one\n- item two\n\n```\ncode here\n```\n"
	path := writeFile(t, "doc.md", []byte(input))

	p := &MarkdownParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Title\n", "Some emph text\nnext line.", "item one", "item two", "code here"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
	for _, markup := range []string{"#", "*", "```", "- item"} {
		if strings.Contains(got, markup) {
			t.Errorf("expected markup %q to be dropped, got %q", markup, got)
		}
	}
}

func TestMarkdownParser_AutoLink(t *testing.T) {
	path := writeFile(t, "links.md", []byte("See <https://example.com> now.\n"))

	p := &MarkdownParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "See https://example.com now.") {
		t.Errorf("expected autolink label in text, got %q", got)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	path := writeFile(t, "empty.md", nil)

	p := &MarkdownParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
