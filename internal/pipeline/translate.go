package pipeline

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/brailledoc/internal/braille"
	"github.com/dgallion1/brailledoc/internal/record"
)

// Translator converts structured records to braille records, returning the
// entries it had to drop.
type Translator interface {
	Translate(records []record.Structured) ([]record.Braille, []braille.Failure)
}

// TranslateFile reads the structured data file, translates every usable
// entry and writes the braille output file. Malformed and failed entries are
// dropped, logged and listed in the report; the output is written regardless.
func TranslateFile(inFile, outFile string, t Translator, log *slog.Logger) (*Report, error) {
	if log == nil {
		log = slog.Default()
	}
	recs, bad, err := record.ReadStructured(inFile)
	if err != nil {
		return nil, err
	}

	report := NewReport(StageTranslate)
	for _, b := range bad {
		log.Error("malformed structured entry", "entry", b.Name(), "error", b.Err)
		report.Add(Item{Name: b.Name(), Status: StatusDropped, Error: b.Error()})
	}

	start := time.Now()
	out, failures := t.Translate(recs)
	elapsed := time.Since(start).Milliseconds()
	if out == nil {
		out = []record.Braille{}
	}

	failed := make(map[string]string, len(failures))
	for _, f := range failures {
		failed[f.ID] = f.Err.Error()
	}
	for _, rec := range recs {
		if msg, ok := failed[rec.ID]; ok {
			report.Add(Item{Name: rec.ID, Status: StatusDropped, Error: msg})
		}
	}
	for _, b := range out {
		report.Add(Item{
			Name:        b.ID,
			Status:      StatusTranslated,
			Chars:       utf8.RuneCountInString(b.Braille),
			ContentHash: ContentHashHex([]byte(b.Braille)),
		})
	}

	if err := record.WriteJSON(outFile, out); err != nil {
		return report, err
	}
	report.Finish()
	log.Info("braille output written", "run_id", report.ID, "file", outFile,
		"translated", len(out), "dropped", report.Count(StatusDropped), "duration_ms", elapsed)
	return report, nil
}
