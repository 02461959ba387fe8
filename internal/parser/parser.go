package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/brailledoc/internal/normalize"
)

// Parser turns the file at path into plain text.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
}

// ParserFunc adapts an ordinary function to the Parser interface.
type ParserFunc func(ctx context.Context, path string) (string, error)

func (f ParserFunc) Parse(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Format tags the family of documents a strategy handles.
type Format string

const (
	FormatImage    Format = "image"
	FormatPDF      Format = "pdf"
	FormatWord     Format = "word"
	FormatExcel    Format = "excel"
	FormatCSV      Format = "csv"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMSG      Format = "msg"
	FormatEML      Format = "eml"
	FormatPPTX     Format = "pptx"
	FormatRTF      Format = "rtf"
	FormatMarkdown Format = "markdown"
)

// ErrUnsupported is returned by Lookup for extensions with no strategy.
var ErrUnsupported = errors.New("unsupported file extension")

type strategy struct {
	format Format
	parser Parser
}

// Registry maps lowercased file extensions to extraction strategies. It is
// filled once at startup and only read afterwards.
type Registry struct {
	byExt map[string]strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]strategy)}
}

// Register binds p to each of exts. The parser's output is normalized before
// it is returned from Lookup's parser.
func (r *Registry) Register(format Format, p Parser, exts ...string) {
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.byExt[ext] = strategy{format: format, parser: normalized{p}}
	}
}

// Lookup returns the strategy for filename's extension.
func (r *Registry) Lookup(filename string) (Format, Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	s, ok := r.byExt[ext]
	if !ok {
		if ext == "" {
			return "", nil, fmt.Errorf("%w: no extension", ErrUnsupported)
		}
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	return s.format, s.parser, nil
}

// IsSupported reports whether filename's extension has a strategy.
func (r *Registry) IsSupported(filename string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FormatFor returns the format registered for ext, or "" if none.
func (r *Registry) FormatFor(ext string) Format {
	return r.byExt[strings.ToLower(ext)].format
}

type normalized struct {
	p Parser
}

func (n normalized) Parse(ctx context.Context, path string) (string, error) {
	text, err := n.p.Parse(ctx, path)
	if err != nil {
		return "", err
	}
	return normalize.Text(text), nil
}

// Options configures the default strategy set.
type Options struct {
	// OCR recognizes text in images. Image files fail extraction when nil.
	OCR Recognizer
	// OCRLanguage is passed to the recognizer, e.g. "eng" or "eng+hin".
	OCRLanguage string
	// FallbackPdftotext retries failed PDF extraction with the pdftotext binary.
	FallbackPdftotext bool
}

// NewDefault returns a registry with every built-in strategy.
func NewDefault(opts Options) *Registry {
	r := NewRegistry()
	r.Register(FormatImage, &ImageParser{OCR: opts.OCR, Language: opts.OCRLanguage},
		".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp")
	r.Register(FormatPDF, &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, ".pdf")
	// Legacy .doc and .xls go to the OOXML readers and fail there.
	r.Register(FormatWord, &DOCXParser{}, ".docx", ".doc")
	r.Register(FormatExcel, &XLSXParser{}, ".xlsx", ".xlsm", ".xls")
	r.Register(FormatCSV, &CSVParser{}, ".csv")
	r.Register(FormatText, &TextParser{}, ".txt")
	r.Register(FormatHTML, &HTMLParser{}, ".html", ".htm")
	r.Register(FormatMSG, &MSGParser{}, ".msg")
	r.Register(FormatEML, &EMLParser{}, ".eml")
	r.Register(FormatPPTX, &PPTXParser{}, ".pptx")
	r.Register(FormatRTF, &RTFParser{}, ".rtf")
	r.Register(FormatMarkdown, &MarkdownParser{}, ".md", ".markdown")
	return r
}
