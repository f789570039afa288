package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coedit/coedit/internal/document"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	d := &document.Document{Title: "Plan", Body: document.NoteBody(), CreatedBy: "u1", LastModifiedBy: "u1"}
	id, err := r.Create(ctx, d)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Plan", got.Title)
	require.Equal(t, "", got.Content)
	require.Equal(t, "u1", got.LastModifiedBy)

	require.NoError(t, r.UpdateContent(ctx, id, "hello", "u2"))
	got2, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "hello", got2.Content)
	require.Equal(t, "u2", got2.LastModifiedBy)
	require.False(t, got2.LastModifiedAt.Before(got.LastModifiedAt))

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.Get(ctx, id)
	require.True(t, errors.Is(err, document.ErrNotFound))
	require.True(t, errors.Is(r.Delete(ctx, id), document.ErrNotFound))
}

func TestMemoryRepoLastWriteWins(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	id, err := r.Create(ctx, &document.Document{Title: "t", Body: document.NoteBody(), CreatedBy: "u1"})
	require.NoError(t, err)

	require.NoError(t, r.UpdateContent(ctx, id, "from A", "a"))
	require.NoError(t, r.UpdateContent(ctx, id, "from B", "b"))

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	// the later write replaces the whole content, no merging
	require.Equal(t, "from B", got.Content)
	require.Equal(t, "b", got.LastModifiedBy)
}

func TestMemoryRepoListByOwner(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	idA, err := r.Create(ctx, &document.Document{Title: "a", Body: document.NoteBody(), CreatedBy: "owner"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &document.Document{Title: "other", Body: document.NoteBody(), CreatedBy: "someone-else"})
	require.NoError(t, err)
	idB, err := r.Create(ctx, &document.Document{Title: "b", Body: document.NoteBody(), CreatedBy: "owner"})
	require.NoError(t, err)

	list, err := r.ListByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// most recently created first
	require.Equal(t, idB, list[0].ID)
	require.Equal(t, idA, list[1].ID)
}

func TestMemoryRepoGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	id, err := r.Create(ctx, &document.Document{Title: "t", Body: document.NoteBody(), CreatedBy: "u1"})
	require.NoError(t, err)

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	got.Content = "mutated by caller"

	again, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "", again.Content)
}
