package record

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON writes v as a pretty-printed UTF-8 JSON document. Non-ASCII
// characters are written literally. The file is replaced atomically.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode json: %w", err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// rawStructured mirrors Structured with pointers so absent keys can be told
// apart from empty values.
type rawStructured struct {
	ID       *string   `json:"id"`
	Content  *string   `json:"content"`
	Metadata *Metadata `json:"metadata"`
}

// ReadStructured loads a structured data file. Elements that are not objects
// or lack an id or content key are returned in bad and left out of recs; a
// file that cannot be read or is not a JSON array is an error.
func ReadStructured(path string) (recs []Structured, bad []*EntryError, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return DecodeStructured(data)
}

// DecodeStructured is ReadStructured over an in-memory document.
func DecodeStructured(data []byte) (recs []Structured, bad []*EntryError, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("decode structured data: %w", err)
	}

	recs = make([]Structured, 0, len(elems))
	for i, raw := range elems {
		var r rawStructured
		if err := json.Unmarshal(raw, &r); err != nil {
			bad = append(bad, &EntryError{Index: i, Err: err})
			continue
		}
		if r.ID == nil {
			bad = append(bad, &EntryError{Index: i, Err: ErrMissingID})
			continue
		}
		if r.Content == nil {
			bad = append(bad, &EntryError{Index: i, ID: *r.ID, Err: ErrMissingContent})
			continue
		}
		rec := Structured{ID: *r.ID, Content: *r.Content, Metadata: Metadata{Source: Source}}
		if r.Metadata != nil {
			rec.Metadata = *r.Metadata
		}
		recs = append(recs, rec)
	}
	return recs, bad, nil
}

var (
	ErrMissingID      = errors.New("missing key \"id\"")
	ErrMissingContent = errors.New("missing key \"content\"")
)

// EntryError describes one unusable element of a structured data file.
type EntryError struct {
	Index int
	ID    string // empty when the element has no id
	Err   error
}

func (e *EntryError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("entry %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Name identifies the entry in logs and reports.
func (e *EntryError) Name() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("entry %d", e.Index)
}
