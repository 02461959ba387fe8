package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/dgallion1/brailledoc/internal/normalize"
	"github.com/dgallion1/brailledoc/internal/record"
)

// LoadCorpus reads every regular file in dir as one entry, id = file name, in
// directory order. Unreadable files are logged and left out.
func LoadCorpus(dir string, log *slog.Logger) ([]record.Entry, error) {
	if log == nil {
		log = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	corpus := make([]record.Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Error("read corpus file", "file", entry.Name(), "error", err)
			continue
		}
		corpus = append(corpus, record.Entry{ID: entry.Name(), Text: string(data)})
	}
	return corpus, nil
}

// Structure turns entries into structured records, one per entry, in order.
// Content is normalized; source is always record.Source and author is null.
func Structure(entries []record.Entry) []record.Structured {
	out := make([]record.Structured, 0, len(entries))
	for _, e := range entries {
		out = append(out, record.Structured{
			ID:       e.ID,
			Content:  normalize.Text(e.Text),
			Metadata: record.Metadata{Source: record.Source},
		})
	}
	return out
}

// StructureDir loads the corpus in inDir and writes the structured data file
// to outFile.
func StructureDir(inDir, outFile string, log *slog.Logger) (*Report, []record.Structured, error) {
	if log == nil {
		log = slog.Default()
	}
	corpus, err := LoadCorpus(inDir, log)
	if err != nil {
		return nil, nil, err
	}

	report := NewReport(StageStructure)
	recs := Structure(corpus)
	for _, rec := range recs {
		report.Add(Item{
			Name:        rec.ID,
			Status:      StatusStructured,
			Chars:       utf8.RuneCountInString(rec.Content),
			ContentHash: ContentHashHex([]byte(rec.Content)),
		})
	}

	if err := record.WriteJSON(outFile, recs); err != nil {
		return report, recs, err
	}
	report.Finish()
	log.Info("structured data written", "run_id", report.ID, "file", outFile, "records", len(recs))
	return report, recs, nil
}
