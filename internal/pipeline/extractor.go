package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/brailledoc/internal/parser"
)

// Options tunes an Extractor. The zero value extracts one file at a time with
// no deadline or size limit.
type Options struct {
	Workers      int
	Timeout      time.Duration
	MaxFileBytes int64
	Stats        *LatencyStats
}

// Extractor dispatches files to the registry's strategies. Every failure is
// absorbed: the caller always gets text, possibly empty.
type Extractor struct {
	reg  *parser.Registry
	log  *slog.Logger
	opts Options
}

func NewExtractor(reg *parser.Registry, log *slog.Logger, opts Options) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Extractor{reg: reg, log: log, opts: opts}
}

// Supports reports whether name has an extraction strategy.
func (e *Extractor) Supports(name string) bool {
	return e.reg.IsSupported(name)
}

// Result is the outcome of extracting one file.
type Result struct {
	Name     string
	Format   parser.Format
	Text     string
	Status   ItemStatus
	Err      error
	Duration time.Duration
}

// Extract returns the normalized text of the file at path, or "" if the file
// is unsupported or its strategy failed.
func (e *Extractor) Extract(ctx context.Context, path string) string {
	return e.ExtractFile(ctx, path).Text
}

// ExtractFile extracts one file and logs the outcome.
func (e *Extractor) ExtractFile(ctx context.Context, path string) Result {
	return e.extractFile(ctx, path, func() {})
}

// extractFile calls release exactly once, when the strategy goroutine has
// returned. After a timeout that is later than extractFile itself.
func (e *Extractor) extractFile(ctx context.Context, path string, release func()) Result {
	name := filepath.Base(path)
	format, p, err := e.reg.Lookup(name)
	if err != nil {
		release()
		e.log.Warn("skipping unsupported file", "file", name, "error", err)
		return Result{Name: name, Status: StatusSkipped, Err: err}
	}

	start := time.Now()
	text, err := e.run(ctx, p, path, release)
	res := Result{Name: name, Format: format, Duration: time.Since(start)}
	if e.opts.Stats != nil {
		e.opts.Stats.Observe(res.Duration)
	}

	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		e.log.Error("extraction failed", "file", name, "format", format, "error", err,
			"duration_ms", res.Duration.Milliseconds())
		return res
	}

	res.Text = text
	res.Status = StatusExtracted
	if text == "" {
		res.Status = StatusEmpty
	}
	e.log.Info("extracted", "file", name, "format", format,
		"chars", utf8.RuneCountInString(text), "duration_ms", res.Duration.Milliseconds())
	return res
}

// run applies the size limit and deadline, and turns strategy panics into
// errors. Strategies that ignore ctx keep running after a timeout; release
// fires only once they return.
func (e *Extractor) run(ctx context.Context, p parser.Parser, path string, release func()) (string, error) {
	if err := ctx.Err(); err != nil {
		release()
		return "", err
	}
	if e.opts.MaxFileBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			release()
			return "", err
		}
		if info.Size() > e.opts.MaxFileBytes {
			release()
			return "", fmt.Errorf("file is %d bytes, limit is %d", info.Size(), e.opts.MaxFileBytes)
		}
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer release()
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("strategy panic: %v", r)}
			}
		}()
		text, err := p.Parse(ctx, path)
		done <- outcome{text: text, err: err}
	}()

	select {
	case o := <-done:
		return o.text, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("extraction timed out after %s", e.opts.Timeout)
		}
		return "", ctx.Err()
	}
}

// ExtractDir extracts every regular file in inDir and writes the text of each
// supported one to outDir/<name>.txt, including failures as empty files.
// Unsupported files are skipped and reported. Files run on up to
// Options.Workers goroutines; the report keeps directory order. A worker slot
// stays taken until its strategy returns, even past a timeout.
//
// If ctx is cancelled nothing more is written and the context error is
// returned, so an interrupted run leaves earlier output in place.
func (e *Extractor) ExtractDir(ctx context.Context, inDir, outDir string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	report := NewReport(StageExtract)
	e.log.Info("extracting", "run_id", report.ID, "dir", inDir, "files", len(names), "workers", e.opts.Workers)

	results := make([]Result, len(names))
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
dispatch:
	for i, name := range names {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			release := sync.OnceFunc(func() { <-sem })
			results[i] = e.extractFile(ctx, filepath.Join(inDir, name), release)
		}(i, name)
	}
	wg.Wait()

	for _, res := range results {
		if err := ctx.Err(); err != nil {
			e.log.Warn("extraction interrupted, keeping existing output", "run_id", report.ID, "error", err)
			return nil, fmt.Errorf("extraction cancelled: %w", err)
		}
		item := Item{
			Name:       res.Name,
			Format:     string(res.Format),
			Status:     res.Status,
			Chars:      utf8.RuneCountInString(res.Text),
			DurationMs: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		if res.Status != StatusSkipped {
			out := filepath.Join(outDir, res.Name+".txt")
			if err := os.WriteFile(out, []byte(res.Text), 0o644); err != nil {
				e.log.Error("write extracted text", "file", out, "error", err)
				item.Status = StatusFailed
				item.Error = err.Error()
			} else {
				item.ContentHash = ContentHashHex([]byte(res.Text))
			}
		}
		report.Add(item)
	}
	report.Finish()
	return report, nil
}
