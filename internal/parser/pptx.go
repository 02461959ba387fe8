package parser

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTXParser handles PowerPoint presentations. Slides are read in numeric
// order; each top-level text shape contributes its text plus a newline.
type PPTXParser struct{}

func (p *PPTXParser) Parse(_ context.Context, path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	type slidePart struct {
		num  int
		file *zip.File
	}
	var slides []slidePart
	var hasPresentation bool
	for _, f := range r.File {
		if f.Name == "ppt/presentation.xml" {
			hasPresentation = true
			continue
		}
		m := slidePartRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slidePart{num: n, file: f})
	}
	if !hasPresentation {
		return "", errors.New("ppt/presentation.xml not found in archive")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var buf strings.Builder
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", s.file.Name, err)
		}
		err = slideText(rc, &buf)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", s.file.Name, err)
		}
	}
	return buf.String(), nil
}

type pptxShape struct {
	depth   int
	hasBody bool
	paras   int
	text    strings.Builder
}

// slideText streams one slide part and writes the text of each shape that
// sits directly in the slide's shape tree.
func slideText(r io.Reader, out *strings.Builder) error {
	decoder := xml.NewDecoder(r)
	var stack []string
	var shape *pptxShape

	parentIs := func(names ...string) bool {
		for i, name := range names {
			idx := len(stack) - 2 - i
			if idx < 0 || stack[idx] != name {
				return false
			}
		}
		return true
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			switch {
			case t.Name.Local == "sp" && shape == nil && parentIs("spTree", "cSld"):
				shape = &pptxShape{depth: len(stack)}
			case shape == nil:
			case t.Name.Local == "txBody" && len(stack) == shape.depth+1:
				shape.hasBody = true
			case t.Name.Local == "p" && parentIs("txBody"):
				if shape.paras > 0 {
					shape.text.WriteByte('\n')
				}
				shape.paras++
			case t.Name.Local == "br":
				shape.text.WriteByte('\n')
			}

		case xml.CharData:
			if shape != nil && len(stack) > 0 && stack[len(stack)-1] == "t" {
				shape.text.Write(t)
			}

		case xml.EndElement:
			if shape != nil && t.Name.Local == "sp" && len(stack) == shape.depth {
				if shape.hasBody {
					out.WriteString(shape.text.String())
					out.WriteByte('\n')
				}
				shape = nil
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}
