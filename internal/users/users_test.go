package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileDisplayName(t *testing.T) {
	p := &Profile{ID: "u1", Name: "Ann", Email: "ann@example.com"}
	require.Equal(t, "Ann", p.DisplayName())

	p = &Profile{ID: "u1", Email: "ann@example.com"}
	require.Equal(t, "ann@example.com", p.DisplayName())

	p = &Profile{ID: "u1"}
	require.Equal(t, "Anonymous", p.DisplayName())
}

func TestMemoryRepoUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	missing, err := r.GetByID(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)

	created, err := r.Upsert(ctx, &Profile{ID: "u1", Name: "Ann"})
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	updated, err := r.Upsert(ctx, &Profile{ID: "u1", Name: "Anna"})
	require.NoError(t, err)
	require.Equal(t, "Anna", updated.Name)
	require.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Anna", got.Name)
}

func TestServiceUpsertFromClaims(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	p, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "u1", "name": "Ann", "email": "ann@example.com"})
	require.NoError(t, err)
	require.Equal(t, "u1", p.ID)
	require.Equal(t, "Ann", p.Name)

	// claims without a subject are ignored
	p, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"name": "ghost"})
	require.NoError(t, err)
	require.Nil(t, p)
}
