package parser

import (
	"context"
	"errors"
	"os"
	"unicode/utf8"
)

// TextParser reads plain text files verbatim. The file must be valid UTF-8.
type TextParser struct{}

func (p *TextParser) Parse(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid utf-8")
	}
	return string(data), nil
}
