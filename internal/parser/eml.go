package parser

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/encoding/htmlindex"
)

// EMLParser handles RFC 822 messages. Multipart messages yield their
// text/plain parts joined by newlines; single-part messages yield the decoded
// body, with HTML bodies reduced to text.
type EMLParser struct{}

func (p *EMLParser) Parse(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return "", fmt.Errorf("parse message: %w", err)
	}

	mediaType, params := contentType(textproto.MIMEHeader(msg.Header))
	if strings.HasPrefix(mediaType, "multipart/") {
		parts := plainTextParts(msg.Body, params["boundary"])
		return strings.Join(parts, "\n"), nil
	}

	body, err := decodeBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"), params["charset"])
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	if mediaType == "text/html" {
		body = html.UnescapeString(bluemonday.StrictPolicy().Sanitize(body))
	}
	return body, nil
}

// contentType parses the Content-Type header. Missing or malformed headers
// are treated as text/plain.
func contentType(h textproto.MIMEHeader) (string, map[string]string) {
	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return "text/plain", map[string]string{}
	}
	return mediaType, params
}

// plainTextParts walks a multipart body depth-first and returns the decoded
// text/plain leaves. Parts that fail to decode are skipped.
func plainTextParts(r io.Reader, boundary string) []string {
	if boundary == "" {
		return nil
	}

	var out []string
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextRawPart()
		if err != nil {
			break
		}

		mediaType, params := contentType(part.Header)
		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			out = append(out, plainTextParts(part, params["boundary"])...)
		case mediaType == "text/plain":
			text, err := decodeBody(part, part.Header.Get("Content-Transfer-Encoding"), params["charset"])
			if err == nil {
				out = append(out, text)
			}
		}
		part.Close()
	}
	return out
}

// decodeBody undoes the transfer encoding and converts from charset to UTF-8.
// Bytes that cannot be decoded are dropped.
func decodeBody(r io.Reader, transferEncoding, charset string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		clean := strings.Map(func(r rune) rune {
			if r == '\r' || r == '\n' || r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, string(raw))
		raw, err = base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return "", fmt.Errorf("base64: %w", err)
		}
	case "quoted-printable":
		raw, err = io.ReadAll(quotedprintable.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return "", fmt.Errorf("quoted-printable: %w", err)
		}
	}

	if charset != "" {
		if enc, err := htmlindex.Get(charset); err == nil {
			if decoded, err := enc.NewDecoder().Bytes(raw); err == nil {
				raw = decoded
			}
		}
	}
	return strings.ToValidUTF8(string(raw), ""), nil
}
