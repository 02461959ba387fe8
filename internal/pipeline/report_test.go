package pipeline

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestReport_CountsAndSnapshot(t *testing.T) {
	r := NewReport(StageExtract)
	r.Add(Item{Name: "a.txt", Status: StatusExtracted, Chars: 5})
	r.Add(Item{Name: "b.zip", Status: StatusSkipped})
	r.Add(Item{Name: "c.pdf", Status: StatusFailed, Error: "boom"})
	r.Add(Item{Name: "d.txt", Status: StatusExtracted})
	r.Finish()

	if r.Count(StatusExtracted) != 2 {
		t.Errorf("expected 2 extracted, got %d", r.Count(StatusExtracted))
	}
	if r.Count(StatusDropped) != 0 {
		t.Errorf("expected 0 dropped, got %d", r.Count(StatusDropped))
	}

	snap := r.Snapshot()
	if snap.Stage != StageExtract {
		t.Errorf("expected stage %q, got %q", StageExtract, snap.Stage)
	}
	if len(snap.Items) != 4 || snap.Items[2].Name != "c.pdf" {
		t.Fatalf("expected items in insertion order, got %+v", snap.Items)
	}
	if snap.Counts[StatusSkipped] != 1 {
		t.Errorf("expected 1 skipped, got %d", snap.Counts[StatusSkipped])
	}
	if snap.FinishedAt.Before(snap.StartedAt) {
		t.Error("expected finish after start")
	}

	// Snapshot is a copy.
	snap.Items[0].Name = "changed"
	if r.Snapshot().Items[0].Name != "a.txt" {
		t.Error("expected snapshot items to be a copy")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["run_id"] != r.ID {
		t.Errorf("expected run_id %q, got %v", r.ID, decoded["run_id"])
	}
}

func TestReport_ConcurrentAdd(t *testing.T) {
	r := NewReport(StageTranslate)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(Item{Status: StatusTranslated})
		}()
	}
	wg.Wait()
	if r.Count(StatusTranslated) != 50 {
		t.Errorf("expected 50 items, got %d", r.Count(StatusTranslated))
	}
}

func TestNewRunID_Format(t *testing.T) {
	id := NewRunID()
	if len(id) != 26 {
		t.Fatalf("expected 26 characters, got %d (%q)", len(id), id)
	}
	for _, c := range []byte(id) {
		if indexCrockford(c) < 0 {
			t.Fatalf("unexpected character %q in %q", c, id)
		}
	}
	if id[0] > '7' {
		t.Errorf("expected leading digit <= 7, got %q", id[0])
	}
}

func TestNewRunID_UniqueAndOrdered(t *testing.T) {
	prev := NewRunID()
	seen := map[string]bool{prev: true}
	for i := 0; i < 1000; i++ {
		id := NewRunID()
		if seen[id] {
			t.Fatalf("duplicate run id %q", id)
		}
		if id <= prev {
			t.Fatalf("expected %q > %q", id, prev)
		}
		seen[id] = true
		prev = id
	}
}

func TestRunIDTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewRunID()
	ts, ok := RunIDTime(id)
	if !ok {
		t.Fatalf("expected timestamp in %q", id)
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("expected timestamp near now, got %v", ts)
	}
	if _, ok := RunIDTime("short"); ok {
		t.Error("expected short id to be rejected")
	}
	if _, ok := RunIDTime("ILOU000000000000000000000U"); ok {
		t.Error("expected invalid characters to be rejected")
	}
}

func TestEncodeCrockford_KnownValues(t *testing.T) {
	var zero [16]byte
	if got := encodeCrockford(zero); got != "00000000000000000000000000" {
		t.Errorf("expected all zeros, got %q", got)
	}
	var one [16]byte
	one[15] = 1
	if got := encodeCrockford(one); got != "00000000000000000000000001" {
		t.Errorf("expected trailing 1, got %q", got)
	}
	var max [16]byte
	for i := range max {
		max[i] = 0xff
	}
	if got := encodeCrockford(max); got != "7ZZZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Errorf("expected max ulid, got %q", got)
	}
}
