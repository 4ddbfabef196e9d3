package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/database/dbtest"
	"taskboard/internal/models"
)

func TestUserStoreCRUD(t *testing.T) {
	store := New(dbtest.Open(t))
	ctx := context.Background()

	u := &models.User{Email: "alice@example.com", FirstName: "Alice", LastName: "Doe", PasswordDigest: "digest"}
	require.NoError(t, store.Users.Create(ctx, u))
	require.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := store.Users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	u.FirstName = "Alicia"
	require.NoError(t, store.Users.Update(ctx, u))

	got, err := store.Users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)

	require.NoError(t, store.Users.Delete(ctx, u.ID))
	_, err = store.Users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserStoreGetByEmailMissing(t *testing.T) {
	store := New(dbtest.Open(t))

	_, err := store.Users.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStatusStoreCRUD(t *testing.T) {
	store := New(dbtest.Open(t))
	ctx := context.Background()

	st := &models.TaskStatus{Name: "Draft", Slug: "draft"}
	require.NoError(t, store.Statuses.Create(ctx, st))

	bySlug, err := store.Statuses.GetBySlug(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, st.ID, bySlug.ID)

	st.Name = "Drafting"
	st.Slug = "drafting"
	require.NoError(t, store.Statuses.Update(ctx, st))

	_, err = store.Statuses.GetBySlug(ctx, "draft")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	all, err := store.Statuses.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "drafting", all[0].Slug)

	require.NoError(t, store.Statuses.Delete(ctx, st.ID))
	_, err = store.Statuses.Get(ctx, st.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLabelStoreGetByIDs(t *testing.T) {
	store := New(dbtest.Open(t))
	ctx := context.Background()

	a := &models.Label{Name: "bug"}
	b := &models.Label{Name: "feature"}
	require.NoError(t, store.Labels.Create(ctx, a))
	require.NoError(t, store.Labels.Create(ctx, b))

	labels, err := store.Labels.GetByIDs(ctx, []int64{a.ID, b.ID, 9999})
	require.NoError(t, err)
	require.Len(t, labels, 2, "missing ids are skipped, not an error")
	assert.Equal(t, a.ID, labels[0].ID)
	assert.Equal(t, b.ID, labels[1].ID)

	empty, err := store.Labels.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
