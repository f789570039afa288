package presence

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisRepo(t *testing.T) (*RedisRepo, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return NewRedisRepo(client, "test:presence:"), m
}

func TestRedisRepoHeartbeatUpserts(t *testing.T) {
	r, _ := newTestRedisRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", UserName: "Ann", CursorPosition: 3, LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", UserName: "Ann", CursorPosition: 7, LastSeen: now.Add(time.Second)}))

	recs, err := r.ListActive(ctx, "d1", "", now.Add(2*time.Second))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, 7, recs[0].CursorPosition)
	require.Equal(t, "Ann", recs[0].UserName)
}

func TestRedisRepoListActiveFiltersAndExcludes(t *testing.T) {
	r, _ := newTestRedisRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "me", LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "fresh", LastSeen: now.Add(-time.Minute)}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "stale", LastSeen: now.Add(-6 * time.Minute)}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d2", UserID: "elsewhere", LastSeen: now}))

	recs, err := r.ListActive(ctx, "d1", "me", now)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "fresh", recs[0].UserID)
}

func TestRedisRepoDeleteAllForDocument(t *testing.T) {
	r, _ := newTestRedisRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u2", LastSeen: now}))
	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d2", UserID: "u1", LastSeen: now}))

	require.NoError(t, r.DeleteAllForDocument(ctx, "d1"))

	recs, err := r.ListActive(ctx, "d1", "", now)
	require.NoError(t, err)
	require.Empty(t, recs)
	others, err := r.ListActive(ctx, "d2", "", now)
	require.NoError(t, err)
	require.Len(t, others, 1)
}

func TestRedisRepoHygieneTTL(t *testing.T) {
	r, m := newTestRedisRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, r.Heartbeat(ctx, &Record{DocumentID: "d1", UserID: "u1", LastSeen: now}))

	// rows physically disappear after the hygiene TTL, independent of the
	// liveness filter
	m.FastForward(hygieneTTL + time.Second)

	recs, err := r.ListActive(ctx, "d1", "", now)
	require.NoError(t, err)
	require.Empty(t, recs)
}
