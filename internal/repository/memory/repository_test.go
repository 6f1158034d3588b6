package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-app/internal/model"
)

func TestRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()

	note, err := r.Create(ctx, model.Note{ID: "client-id", OwnerID: "u1", Text: "Buy milk"})
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.NotEqual(t, "client-id", note.ID, "id must be assigned by the store")
	assert.False(t, note.CreatedAt.IsZero())
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
}

func TestRepository_ListByOwner_ScopedAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewRepository().(*repo)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older, err := r.Create(ctx, model.Note{OwnerID: "u1", Text: "older", CreatedAt: base})
	require.NoError(t, err)
	newer, err := r.Create(ctx, model.Note{OwnerID: "u1", Text: "newer", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = r.Create(ctx, model.Note{OwnerID: "u2", Text: "foreign"})
	require.NoError(t, err)

	notes, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, newer.ID, notes[0].ID)
	assert.Equal(t, older.ID, notes[1].ID)
}

func TestRepository_UpdateKeepsImmutableFields(t *testing.T) {
	ctx := context.Background()
	r := NewRepository().(*repo)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return created }
	note, err := r.Create(ctx, model.Note{OwnerID: "u1", Text: "old"})
	require.NoError(t, err)

	later := created.Add(time.Minute)
	r.now = func() time.Time { return later }
	note.Text = "new"
	note.OwnerID = "intruder"
	updated, err := r.Update(ctx, note)
	require.NoError(t, err)

	assert.Equal(t, "new", updated.Text)
	assert.Equal(t, "u1", updated.OwnerID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
}

func TestRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()

	_, err := r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	_, err = r.Update(ctx, model.Note{ID: "missing"})
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	assert.ErrorIs(t, r.Delete(ctx, "missing"), model.ErrNoteNotFound)
}

func TestUserRepository_EmailIsUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	user, err := r.Create(ctx, model.User{Email: "Ann@Example.com", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = r.Create(ctx, model.User{Email: "ann@example.com"})
	assert.ErrorIs(t, err, model.ErrUserExists)

	found, err := r.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
