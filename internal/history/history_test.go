package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", dbFile))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := s.Record(ctx, Run{
		StartedAt: base,
		Duration:  1500 * time.Millisecond,
		Format:    "jpg",
		OutputDir: "/out",
		Total:     2,
		Succeeded: 1,
		Entries: []Entry{
			{Input: "/in/a.png", Output: "/out/a.jpg", Success: true},
			{Input: "/in/b.xyz", Kind: "no_converter", Error: "no converter for b.xyz"},
		},
	})
	require.NoError(t, err)

	second, err := s.Record(ctx, Run{
		StartedAt: base.Add(500 * time.Millisecond),
		Format:    "pdf",
		OutputDir: "/docs",
		Total:     3,
		Canceled:  true,
	})
	require.NoError(t, err)

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.True(t, runs[0].Canceled)
	assert.Equal(t, first, runs[1].ID)
	assert.True(t, runs[1].StartedAt.Equal(base))
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, 1, runs[1].Succeeded)
	assert.Empty(t, runs[1].Entries)

	entries, err := s.Entries(ctx, first)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/out/a.jpg", entries[0].Output)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "no_converter", entries[1].Kind)
	assert.False(t, entries[1].Success)

	runs, err = s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestPrune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	id, err := s.Record(ctx, Run{StartedAt: old, Format: "mp3", OutputDir: "/m", Total: 1,
		Entries: []Entry{{Input: "/m/a.wav"}}})
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{StartedAt: old.AddDate(1, 0, 0), Format: "mp3", OutputDir: "/m"})
	require.NoError(t, err)

	n, err := s.Prune(ctx, old.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	entries, err := s.Entries(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, entries, "entries should cascade with their run")

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), dbFile)
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), Run{StartedAt: time.Now(), Format: "txt", OutputDir: "."})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
