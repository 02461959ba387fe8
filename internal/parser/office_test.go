package parser

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"
)

const slideTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree><p:nvGrpSpPr/><p:grpSpPr/>%s</p:spTree></p:cSld></p:sld>`

func textShape(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr/><p:spPr/><p:txBody><a:bodyPr/>`)
	for _, p := range paragraphs {
		b.WriteString(`<a:p><a:r><a:t>` + p + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func writePPTX(t *testing.T, files map[string]string, order []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func slide(shapes ...string) string {
	return strings.Replace(slideTemplate, "%s", strings.Join(shapes, ""), 1)
}

func TestPPTXParser_SlidesInNumericOrder(t *testing.T) {
	files := map[string]string{
		"ppt/presentation.xml":   `<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
		"ppt/slides/slide1.xml":  slide(textShape("Title one", "Line two"), `<p:sp><p:nvSpPr/></p:sp>`),
		"ppt/slides/slide2.xml":  slide(textShape("B")),
		"ppt/slides/slide10.xml": slide(textShape("C")),
	}
	path := writePPTX(t, files, []string{
		"ppt/presentation.xml", "ppt/slides/slide10.xml", "ppt/slides/slide1.xml", "ppt/slides/slide2.xml",
	})

	p := &PPTXParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Title one\nLine two\nB\nC\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPPTXParser_GroupedShapesSkipped(t *testing.T) {
	grouped := `<p:grpSp><p:nvGrpSpPr/>` + textShape("Grouped") + `</p:grpSp>`
	files := map[string]string{
		"ppt/presentation.xml":  `<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
		"ppt/slides/slide1.xml": slide(grouped, textShape("Top")),
	}
	path := writePPTX(t, files, []string{"ppt/presentation.xml", "ppt/slides/slide1.xml"})

	p := &PPTXParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Top\n" {
		t.Errorf("expected %q, got %q", "Top\n", got)
	}
}

func TestPPTXParser_NotAPresentation(t *testing.T) {
	path := writePPTX(t, map[string]string{"word/document.xml": "<w/>"}, []string{"word/document.xml"})
	p := &PPTXParser{}
	if _, err := p.Parse(context.Background(), path); err == nil {
		t.Fatal("expected error for archive without presentation part")
	}
}

func TestXLSXParser_Sheets(t *testing.T) {
	wb := excelize.NewFile()
	if err := wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"item", "qty"}); err != nil {
		t.Fatal(err)
	}
	if err := wb.SetSheetRow("Sheet1", "A2", &[]interface{}{"pen", 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := wb.NewSheet("Blank"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	wb.Close()

	p := &XLSXParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Sheet: Sheet1\n" + renderTable([]string{"item", "qty"}, [][]string{{"pen", "3"}}) + "\n\n" +
		"Sheet: Blank\nEmpty DataFrame\nColumns: []\nIndex: []\n\n"
	if got != want {
		t.Errorf("expected\n%q\ngot\n%q", want, got)
	}
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	path := writeFile(t, "legacy.xls", []byte{0xd0, 0xcf, 0x11, 0xe0, 0, 0, 0, 0})
	p := &XLSXParser{}
	if _, err := p.Parse(context.Background(), path); err == nil {
		t.Fatal("expected error for non-ooxml workbook")
	}
}

func TestDOCXParser_Paragraphs(t *testing.T) {
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("First paragraph")
	doc.AddParagraph().AddText("Second paragraph")

	path := filepath.Join(t.TempDir(), "letter.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := doc.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	p := &DOCXParser{}
	got, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First paragraph\nSecond paragraph\n" {
		t.Errorf("expected two paragraph lines, got %q", got)
	}
}

func TestBinaryParsers_RejectGarbage(t *testing.T) {
	garbage := []byte("this is not a binary document")
	tests := []struct {
		name   string
		parser Parser
	}{
		{"broken.docx", &DOCXParser{}},
		{"broken.doc", &DOCXParser{}},
		{"broken.pdf", &PDFParser{}},
		{"broken.msg", &MSGParser{}},
		{"broken.pptx", &PPTXParser{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.name, garbage)
			if _, err := tt.parser.Parse(context.Background(), path); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}
