package parser

import (
	"strconv"
	"strings"
	"text/tabwriter"
)

// renderTable lays rows out the way a dataframe prints: a header line, then
// one line per row prefixed with its 0-based index, columns right-aligned.
func renderTable(header []string, rows [][]string) string {
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, width)
	for i := range columns {
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			columns[i] = cleanCell(header[i])
		} else {
			columns[i] = "Unnamed: " + strconv.Itoa(i)
		}
	}

	if len(rows) == 0 {
		return "Empty DataFrame\nColumns: [" + strings.Join(columns, ", ") + "]\nIndex: []"
	}

	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeTableRow(tw, "", columns, width)
	for i, row := range rows {
		writeTableRow(tw, strconv.Itoa(i), row, width)
	}
	tw.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

func writeTableRow(tw *tabwriter.Writer, index string, cells []string, width int) {
	var line strings.Builder
	line.WriteString(index)
	line.WriteByte('\t')
	for i := 0; i < width; i++ {
		if i < len(cells) {
			line.WriteString(cleanCell(cells[i]))
		}
		line.WriteByte('\t')
	}
	line.WriteByte('\n')
	tw.Write([]byte(line.String()))
}

// cleanCell keeps a cell on one tabwriter line.
func cleanCell(s string) string {
	return strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// dropBlankRows removes rows whose cells are all empty.
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
