package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhound/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestIsNewBeforeAndAfterObservation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	isNew, err := s.IsNew(ctx, "lever_solana:j1")
	require.NoError(t, err)
	assert.True(t, isNew)

	p := models.Posting{ID: "lever_solana:j1", Title: "Engineer", Company: "SOLANA", URL: "https://x/1", Score: 72.5}
	require.NoError(t, s.RecordObservation(ctx, p, true))

	isNew, err = s.IsNew(ctx, "lever_solana:j1")
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestRecordObservationUpsertsScore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := models.Posting{ID: "gh:1", Title: "SRE", Company: "BLOCK", URL: "https://x/2", Score: 60}
	require.NoError(t, s.RecordObservation(ctx, p, true))

	first, err := s.Get(ctx, "gh:1")
	require.NoError(t, err)
	require.NotNil(t, first)

	p.Score = 85
	require.NoError(t, s.RecordObservation(ctx, p, false))

	rec, err := s.Get(ctx, "gh:1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 85.0, rec.Score)
	assert.Equal(t, first.FirstSeen, rec.FirstSeen)
	// Re-observation does not resurrect the new flag.
	assert.True(t, rec.IsNew)
}

func TestMarkAllSeen(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a:1", "a:2", "a:3"} {
		require.NoError(t, s.RecordObservation(ctx, models.Posting{ID: id, Title: "T", Company: "C", URL: "u"}, true))
	}

	n, err := s.NewCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.MarkAllSeen(ctx))

	n, err = s.NewCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	rec, err := s.Get(ctx, "a:1")
	require.NoError(t, err)
	assert.False(t, rec.IsNew)
}

func TestGetMissingIdentity(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReopenPreservesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordObservation(ctx, models.Posting{ID: "k:1", Title: "T", Company: "C", URL: "u"}, true))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	isNew, err := s2.IsNew(ctx, "k:1")
	require.NoError(t, err)
	assert.False(t, isNew)
}
