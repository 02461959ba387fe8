package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Stage names a pipeline step.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageStructure Stage = "structure"
	StageTranslate Stage = "translate"
)

// ItemStatus is the outcome of one file or record within a stage.
type ItemStatus string

const (
	StatusExtracted  ItemStatus = "extracted"
	StatusEmpty      ItemStatus = "empty"
	StatusFailed     ItemStatus = "failed"
	StatusSkipped    ItemStatus = "skipped"
	StatusStructured ItemStatus = "structured"
	StatusTranslated ItemStatus = "translated"
	StatusDropped    ItemStatus = "dropped"
)

// Item is one line of a stage report.
type Item struct {
	Name        string     `json:"name"`
	Format      string     `json:"format,omitempty"`
	Status      ItemStatus `json:"status"`
	Chars       int        `json:"chars"`
	Error       string     `json:"error,omitempty"`
	ContentHash string     `json:"content_hash,omitempty"`
	DurationMs  int64      `json:"duration_ms"`
}

// Report collects the per-item outcomes of one stage run. It is safe for
// concurrent use.
type Report struct {
	mu sync.Mutex

	ID         string
	Stage      Stage
	StartedAt  time.Time
	FinishedAt time.Time

	items []Item
}

// NewReport starts a report for stage with a fresh run ID.
func NewReport(stage Stage) *Report {
	return &Report{
		ID:        NewRunID(),
		Stage:     stage,
		StartedAt: time.Now().UTC(),
	}
}

// Add appends an item.
func (r *Report) Add(it Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, it)
}

// Finish stamps the completion time.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now().UTC()
}

// Count returns how many items have status.
func (r *Report) Count(status ItemStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Status == status {
			n++
		}
	}
	return n
}

// ReportSnapshot is a read-only, JSON-safe copy of a report.
type ReportSnapshot struct {
	ID         string             `json:"run_id"`
	Stage      Stage              `json:"stage"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Counts     map[ItemStatus]int `json:"counts"`
	Items      []Item             `json:"items"`
}

// Snapshot returns a JSON-safe copy of the report.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Item, len(r.items))
	copy(items, r.items)
	counts := make(map[ItemStatus]int)
	for _, it := range items {
		counts[it.Status]++
	}
	return ReportSnapshot{
		ID:         r.ID,
		Stage:      r.Stage,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Counts:     counts,
		Items:      items,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
