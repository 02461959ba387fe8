// Package braille turns structured records into Unicode braille using an
// external translation engine.
package braille

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/brailledoc/internal/louis"
	"github.com/dgallion1/brailledoc/internal/record"
)

// ErrEngineUnavailable means the translation library or table is missing.
var ErrEngineUnavailable = errors.New("braille translation engine unavailable")

// Engine produces ASCII braille cells for text using a translation table.
type Engine interface {
	Translate(tableList, text string) (string, error)
}

// LatencyRecorder receives per-entry translation durations.
type LatencyRecorder interface {
	Observe(d time.Duration)
}

// Config locates the native library and the translation table.
type Config struct {
	LibraryPath string
	TablesDir   string
	Table       string
}

// TablePath returns the table file path, resolved against TablesDir when
// Table is relative.
func (c Config) TablePath() string {
	if filepath.IsAbs(c.Table) || c.TablesDir == "" {
		return c.Table
	}
	return filepath.Join(c.TablesDir, c.Table)
}

// Validate checks that the library and table exist. A library given as a bare
// name is left to the dynamic loader's search path.
func (c Config) Validate() error {
	if c.LibraryPath == "" {
		return fmt.Errorf("%w: library path is empty", ErrEngineUnavailable)
	}
	if strings.ContainsRune(c.LibraryPath, os.PathSeparator) || strings.ContainsRune(c.LibraryPath, '/') {
		if _, err := os.Stat(c.LibraryPath); err != nil {
			return fmt.Errorf("%w: library not found at %s", ErrEngineUnavailable, c.LibraryPath)
		}
	}
	if c.Table == "" {
		return fmt.Errorf("%w: table is empty", ErrEngineUnavailable)
	}
	if _, err := os.Stat(c.TablePath()); err != nil {
		return fmt.Errorf("%w: table not found at %s", ErrEngineUnavailable, c.TablePath())
	}
	return nil
}

// Failure records an entry that could not be translated.
type Failure struct {
	ID  string
	Err error
}

// Translator converts record content to Unicode braille. It is built once per
// process and never reconfigured.
type Translator struct {
	engine Engine
	table  string
	log    *slog.Logger
	stats  LatencyRecorder
}

// New wraps an already initialized engine.
func New(cfg Config, engine Engine, log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default()
	}
	return &Translator{engine: engine, table: cfg.TablePath(), log: log}
}

// Open validates cfg, loads liblouis and compiles the table. Any failure is
// wrapped in ErrEngineUnavailable.
func Open(cfg Config, log *slog.Logger) (*Translator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lib, err := louis.Open(cfg.LibraryPath, cfg.TablesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if err := lib.CheckTable(cfg.TablePath()); err != nil {
		lib.Close()
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	t := New(cfg, lib, log)
	t.log.Info("braille engine ready", "liblouis", lib.Version(), "table", t.table)
	return t, nil
}

// WithStats records translation latency into s.
func (t *Translator) WithStats(s LatencyRecorder) *Translator {
	t.stats = s
	return t
}

// Table returns the resolved table path.
func (t *Translator) Table() string { return t.table }

// TranslateText translates one string to Unicode braille.
func (t *Translator) TranslateText(text string) (string, error) {
	start := time.Now()
	cells, err := t.engine.Translate(t.table, text)
	if t.stats != nil {
		t.stats.Observe(time.Since(start))
	}
	if err != nil {
		return "", err
	}
	return ToUnicode(cells), nil
}

// Translate converts every record. Entries that fail are dropped from the
// result and returned as failures; they never stop the batch, so callers
// counting records must account for the difference.
func (t *Translator) Translate(records []record.Structured) ([]record.Braille, []Failure) {
	out := make([]record.Braille, 0, len(records))
	var failures []Failure
	for _, rec := range records {
		cells, err := t.TranslateText(rec.Content)
		if err != nil {
			t.log.Error("translation failed", "id", rec.ID, "error", err)
			failures = append(failures, Failure{ID: rec.ID, Err: err})
			continue
		}
		out = append(out, record.Braille{ID: rec.ID, Original: rec.Content, Braille: cells})
	}
	return out, failures
}

// Close releases the engine if it holds native resources.
func (t *Translator) Close() error {
	if c, ok := t.engine.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
