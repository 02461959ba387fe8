// Package record holds the data that flows between pipeline stages and the
// JSON files they exchange.
package record

// Source is the origin tag stamped on every structured record.
const Source = "OCR/Web"

// Entry is the normalized text extracted from one source file.
type Entry struct {
	ID   string // Source file name, unique per batch
	Text string
}

// Metadata describes where a structured record came from. Author is always
// nil: no authorship inference is attempted.
type Metadata struct {
	Source string  `json:"source"`
	Author *string `json:"author"`
}

// Structured is one entry of the structured data file.
type Structured struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Braille is one entry of the braille output file. Braille holds Unicode
// braille patterns (U+2800..U+28FF) plus any engine characters that had no
// mapping.
type Braille struct {
	ID       string `json:"id"`
	Original string `json:"original"`
	Braille  string `json:"braille"`
}
