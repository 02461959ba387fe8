// Package ledger keeps a history of pipeline runs in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/brailledoc/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	stage       TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	total       INTEGER NOT NULL,
	counts      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	run_id       TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	name         TEXT NOT NULL,
	format       TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	chars        INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL DEFAULT '',
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
`

// Ledger records stage reports.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ledger: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores a finished report and its items in one transaction.
func (l *Ledger) Record(ctx context.Context, snap pipeline.ReportSnapshot) error {
	counts, err := json.Marshal(snap.Counts)
	if err != nil {
		return fmt.Errorf("ledger: encode counts: %w", err)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, stage, started_at, finished_at, total, counts) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, string(snap.Stage), formatTime(snap.StartedAt), formatTime(snap.FinishedAt), len(snap.Items), string(counts))
	if err != nil {
		return fmt.Errorf("ledger: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (run_id, seq, name, format, status, chars, error, content_hash, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ledger: prepare items: %w", err)
	}
	defer stmt.Close()

	for i, it := range snap.Items {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, it.Name, it.Format, string(it.Status),
			it.Chars, it.Error, it.ContentHash, it.DurationMs); err != nil {
			return fmt.Errorf("ledger: insert item %s: %w", it.Name, err)
		}
	}
	return tx.Commit()
}

// Run summarizes one recorded stage run.
type Run struct {
	ID         string                      `json:"run_id"`
	Stage      pipeline.Stage              `json:"stage"`
	StartedAt  time.Time                   `json:"started_at"`
	FinishedAt time.Time                   `json:"finished_at"`
	Total      int                         `json:"total"`
	Counts     map[pipeline.ItemStatus]int `json:"counts"`
}

// Runs returns up to limit runs, newest first. Run IDs sort by start time.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, stage, started_at, finished_at, total, counts FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			stage             string
			started, finished string
			counts            string
		)
		if err := rows.Scan(&r.ID, &stage, &started, &finished, &r.Total, &counts); err != nil {
			return nil, fmt.Errorf("ledger: scan run: %w", err)
		}
		r.Stage = pipeline.Stage(stage)
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		if err := json.Unmarshal([]byte(counts), &r.Counts); err != nil {
			return nil, fmt.Errorf("ledger: decode counts for %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Items returns the items of one run in their original order.
func (l *Ledger) Items(ctx context.Context, runID string) ([]pipeline.Item, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT name, format, status, chars, error, content_hash, duration_ms FROM items WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query items: %w", err)
	}
	defer rows.Close()

	var items []pipeline.Item
	for rows.Next() {
		var it pipeline.Item
		var status string
		if err := rows.Scan(&it.Name, &it.Format, &status, &it.Chars, &it.Error, &it.ContentHash, &it.DurationMs); err != nil {
			return nil, fmt.Errorf("ledger: scan item: %w", err)
		}
		it.Status = pipeline.ItemStatus(status)
		items = append(items, it)
	}
	return items, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
