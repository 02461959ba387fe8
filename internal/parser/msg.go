package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// MAPI property streams holding PR_BODY.
const (
	msgBodyUnicode = "__substg1.0_1000001F"
	msgBodyANSI    = "__substg1.0_1000001E"
)

// MSGParser handles Outlook .msg files, returning the plain-text body of the
// top-level message. A message with no body yields "".
type MSGParser struct{}

func (p *MSGParser) Parse(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return "", fmt.Errorf("open compound file: %w", err)
	}

	var (
		best      []byte
		bestDepth = -1
		bestWide  bool
	)
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read compound file: %w", err)
		}

		wide := entry.Name == msgBodyUnicode
		if !wide && entry.Name != msgBodyANSI {
			continue
		}
		depth := len(entry.Path)
		// Attachments and embedded messages carry their own bodies deeper in
		// the tree; the shallowest one belongs to the message itself.
		if bestDepth >= 0 && (depth > bestDepth || (depth == bestDepth && (bestWide || !wide))) {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", entry.Name, err)
		}
		best, bestDepth, bestWide = data, depth, wide
	}

	if bestDepth < 0 {
		return "", nil
	}
	return decodeMSGBody(best, bestWide)
}

func decodeMSGBody(data []byte, wide bool) (string, error) {
	var (
		out []byte
		err error
	)
	if wide {
		out, err = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	} else {
		out, err = charmap.Windows1252.NewDecoder().Bytes(data)
	}
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
