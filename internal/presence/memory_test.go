package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepoHeartbeatUpserts(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", UserName: "Ann", CursorPosition: 3, LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", UserName: "Ann", CursorPosition: 7, LastSeen: now.Add(time.Second)}))

	recs, err := r.ListActive(ctx, "d1", "viewer", now.Add(2*time.Second))
	require.NoError(t, err)
	// exactly one row per (document, user), holding the second call's state
	require.Len(t, recs, 1)
	require.Equal(t, 7, recs[0].CursorPosition)
	require.True(t, recs[0].LastSeen.Equal(now.Add(time.Second)))
}

func TestMemoryRepoListActiveFiltersByWindow(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "fresh", LastSeen: now.Add(-time.Minute)}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "stale", LastSeen: now.Add(-LivenessWindow)}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "long-gone", LastSeen: now.Add(-time.Hour)}))

	recs, err := r.ListActive(ctx, "d1", "", now)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "fresh", recs[0].UserID)
}

func TestMemoryRepoListActiveExcludesCaller(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "me", LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "them", LastSeen: now}))

	recs, err := r.ListActive(ctx, "d1", "me", now)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "them", recs[0].UserID)
}

func TestMemoryRepoDeleteAllForDocument(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d2", UserID: "u1", LastSeen: now}))

	require.NoError(t, r.DeleteAllForDocument(ctx, "d1"))

	recs, err := r.ListActive(ctx, "d1", "", now)
	require.NoError(t, err)
	require.Empty(t, recs)
	others, err := r.ListActive(ctx, "d2", "", now)
	require.NoError(t, err)
	require.Len(t, others, 1)
}

func TestMemoryRepoSweep(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "old", LastSeen: now.Add(-2 * time.Hour)}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "new", LastSeen: now}))

	n, err := r.DeleteIdleBefore(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	recs, err := r.ListActive(ctx, "d1", "", now)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "new", recs[0].UserID)
}
