package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/brailledoc/internal/pipeline"
)

func openTemp(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func finishedReport(stage pipeline.Stage, items ...pipeline.Item) pipeline.ReportSnapshot {
	r := pipeline.NewReport(stage)
	for _, it := range items {
		r.Add(it)
	}
	r.Finish()
	return r.Snapshot()
}

func TestLedger_RecordAndReadBack(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	snap := finishedReport(pipeline.StageExtract,
		pipeline.Item{Name: "a.txt", Format: "text", Status: pipeline.StatusExtracted, Chars: 11, ContentHash: "abc", DurationMs: 3},
		pipeline.Item{Name: "b.zip", Status: pipeline.StatusSkipped, Error: "unsupported file extension: .zip"},
		pipeline.Item{Name: "c.pdf", Format: "pdf", Status: pipeline.StatusFailed, Error: "boom"},
	)
	require.NoError(t, l.Record(ctx, snap))

	runs, err := l.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, snap.ID, runs[0].ID)
	assert.Equal(t, pipeline.StageExtract, runs[0].Stage)
	assert.Equal(t, 3, runs[0].Total)
	assert.Equal(t, 1, runs[0].Counts[pipeline.StatusFailed])
	assert.WithinDuration(t, snap.StartedAt, runs[0].StartedAt, 0)

	items, err := l.Items(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Items, items)
}

func TestLedger_RunsNewestFirstWithLimit(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	var ids []string
	for _, stage := range []pipeline.Stage{pipeline.StageExtract, pipeline.StageStructure, pipeline.StageTranslate} {
		snap := finishedReport(stage)
		ids = append(ids, snap.ID)
		require.NoError(t, l.Record(ctx, snap))
	}

	runs, err := l.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Equal(t, pipeline.StageTranslate, runs[0].Stage)
}

func TestLedger_DuplicateRunRejected(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	snap := finishedReport(pipeline.StageStructure, pipeline.Item{Name: "x", Status: pipeline.StatusStructured})
	require.NoError(t, l.Record(ctx, snap))
	assert.Error(t, l.Record(ctx, snap))

	items, err := l.Items(ctx, snap.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "failed insert must not leave partial items")
}

func TestLedger_UnknownRun(t *testing.T) {
	l := openTemp(t)
	items, err := l.Items(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLedger_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	require.NoError(t, err)
	snap := finishedReport(pipeline.StageTranslate, pipeline.Item{Name: "a", Status: pipeline.StatusDropped})
	require.NoError(t, l.Record(context.Background(), snap))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	runs, err := l.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Counts[pipeline.StatusDropped])
}
