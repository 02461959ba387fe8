package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// CSVParser handles CSV files. The first row is the header.
type CSVParser struct{}

func (p *CSVParser) Parse(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", errors.New("parse csv: no columns to parse")
	}
	return renderTable(records[0], records[1:]), nil
}
