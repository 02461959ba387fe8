package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXParser handles Excel workbooks. Each sheet is rendered as a table under
// a "Sheet: <name>" line, first row as header.
type XLSXParser struct{}

func (p *XLSXParser) Parse(_ context.Context, path string) (string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var buf strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		rows = dropBlankRows(rows)

		buf.WriteString("Sheet: ")
		buf.WriteString(sheet)
		buf.WriteByte('\n')
		if len(rows) == 0 {
			buf.WriteString(renderTable(nil, nil))
		} else {
			buf.WriteString(renderTable(rows[0], rows[1:]))
		}
		buf.WriteString("\n\n")
	}
	return buf.String(), nil
}
