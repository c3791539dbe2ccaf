// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperbatch/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.JobStoreConfig{JobsDir: filepath.Join(t.TempDir(), "jobs")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := types.Submission{
		JobName:      "batches/first",
		Model:        "models/gemini-1.5-flash-002",
		InputFileURI: "https://example.com/v1beta/files/m1",
		ManifestPath: "batch_requests.jsonl",
		RequestCount: 12,
		State:        "BATCH_STATE_PENDING",
		CreatedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := types.Submission{
		JobName:   "batches/second",
		CreatedAt: time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Record(ctx, &older))
	require.NoError(t, store.Record(ctx, &newer))

	// Missing IDs are generated.
	assert.NotEmpty(t, older.ID)
	assert.NotEmpty(t, newer.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	subs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	// Newest first.
	assert.Equal(t, "batches/second", subs[0].JobName)
	assert.Equal(t, "batches/first", subs[1].JobName)

	got := subs[1]
	assert.Equal(t, older.ID, got.ID)
	assert.Equal(t, "models/gemini-1.5-flash-002", got.Model)
	assert.Equal(t, "https://example.com/v1beta/files/m1", got.InputFileURI)
	assert.Equal(t, "batch_requests.jsonl", got.ManifestPath)
	assert.Equal(t, 12, got.RequestCount)
	assert.Equal(t, "BATCH_STATE_PENDING", got.State)
	assert.True(t, got.CreatedAt.Equal(older.CreatedAt))
}

func TestRecord_DefaultsCreatedAt(t *testing.T) {
	store := newTestStore(t)

	sub := types.Submission{JobName: "batches/x"}
	require.NoError(t, store.Record(context.Background(), &sub))
	assert.False(t, sub.CreatedAt.IsZero())
}

func TestList_Empty(t *testing.T) {
	store := newTestStore(t)
	subs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestNewStore_ReopensExistingDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "jobs")
	cfg := types.JobStoreConfig{JobsDir: dir}

	first, err := NewStore(cfg)
	require.NoError(t, err)
	sub := types.Submission{JobName: "batches/persisted"}
	require.NoError(t, first.Record(context.Background(), &sub))
	require.NoError(t, first.Close())

	second, err := NewStore(cfg)
	require.NoError(t, err)
	defer second.Close()

	subs, err := second.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "batches/persisted", subs[0].JobName)
}
