package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/token"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleDiagnostics() []lint.Diagnostic {
	return []lint.Diagnostic{
		{
			RuleID:           "no-bind",
			Severity:         lint.SeverityWarning,
			Message:          "Prefer .on to .bind",
			Pos:              token.Position{Line: 1, Column: 1, Offset: 0},
			EndPos:           token.Position{Line: 1, Column: 13, Offset: 12},
			DocumentationURL: "https://jqlint.dev/docs/rules/no-bind",
			AutoFixable:      true,
			Fixes: []lint.Fix{{
				Description: "Replace with .on",
				TextEdits: []lint.TextEdit{{
					Pos:     token.Position{Line: 1, Column: 6, Offset: 5},
					EndPos:  token.Position{Line: 1, Column: 10, Offset: 9},
					NewText: "on",
				}},
			}},
		},
	}
}

func TestOpen_Migrates(t *testing.T) {
	store := openTestStore(t)

	version, err := store.GetMigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	store, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	// Reopening an existing database is a no-op migration.
	store, err = Open(context.Background(), path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestLookupSave(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	src := []byte("$div.bind('click', f);")
	key := NewKey("/src/app.js", src, "fp1")

	_, ok, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache")

	want := sampleDiagnostics()
	require.NoError(t, store.Save(ctx, key, "", want))

	got, ok, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].RuleID, got[0].RuleID)
	assert.Equal(t, want[0].Severity, got[0].Severity)
	assert.Equal(t, want[0].Message, got[0].Message)
	assert.Equal(t, want[0].Pos, got[0].Pos)
	assert.Equal(t, want[0].EndPos, got[0].EndPos)
	assert.Equal(t, want[0].Fixes, got[0].Fixes)
	assert.Equal(t, want[0].DocumentationURL, got[0].DocumentationURL)
	assert.True(t, got[0].AutoFixable)
}

func TestLookup_Invalidation(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	key := NewKey("/src/app.js", []byte("a"), "fp1")
	require.NoError(t, store.Save(ctx, key, "", sampleDiagnostics()))

	tests := []struct {
		name string
		key  Key
	}{
		{"content changed", NewKey("/src/app.js", []byte("b"), "fp1")},
		{"settings changed", NewKey("/src/app.js", []byte("a"), "fp2")},
		{"other path", NewKey("/src/other.js", []byte("a"), "fp1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := store.Lookup(ctx, tt.key)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSave_ReplacesEntry(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := NewKey("/src/app.js", []byte("a"), "fp")
	second := NewKey("/src/app.js", []byte("b"), "fp")
	require.NoError(t, store.Save(ctx, first, "", sampleDiagnostics()))
	require.NoError(t, store.Save(ctx, second, "", nil))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, ok, err := store.Lookup(ctx, second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got)

	_, ok, err = store.Lookup(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	run, err := store.BeginRun(ctx, "1.0.0", "fp")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	key := NewKey("/src/app.js", []byte("a"), "fp")
	require.NoError(t, store.Save(ctx, key, run.ID, sampleDiagnostics()))

	require.NoError(t, store.FinishRun(ctx, run.ID, RunStats{Files: 3, Cached: 1, Diagnostics: 4}))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, 3, got.Files)
	assert.Equal(t, 1, got.Cached)
	assert.Equal(t, 4, got.Diagnostics)
	require.NotNil(t, got.FinishedAt)
	assert.Empty(t, got.Error)
}

func TestFinishRun_Failed(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	run, err := store.BeginRun(ctx, "dev", "fp")
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(ctx, run.ID, RunStats{Err: errors.New("boom")}))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
}

func TestRuns_NotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.GetRun(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")

	err = store.FinishRun(ctx, "missing", RunStats{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.BeginRun(ctx, "dev", "fp")
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.js")
	require.NoError(t, os.WriteFile(kept, []byte("a"), 0600))
	deleted := filepath.Join(dir, "deleted.js")

	require.NoError(t, store.Save(ctx, NewKey(kept, []byte("a"), "fp"), "", nil))
	require.NoError(t, store.Save(ctx, NewKey(deleted, []byte("a"), "fp"), "", nil))

	removed, err := store.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A zero max age expires everything saved before now.
	time.Sleep(2 * time.Millisecond)
	removed, err = store.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestHashContent(t *testing.T) {
	a := HashContent([]byte("$div.bind();"))
	b := HashContent([]byte("$div.bind();"))
	c := HashContent([]byte("$div.on();"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("a", "b"), Fingerprint("ab"))
	assert.NotEqual(t, Fingerprint("a", "b"), Fingerprint("b", "a"))
}
