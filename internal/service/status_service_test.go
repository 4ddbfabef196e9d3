package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.statuses.Create(ctx, StatusCreate{Name: "", Slug: "x"})
	assert.True(t, IsValidation(err))

	_, err = e.statuses.Create(ctx, StatusCreate{Name: "X", Slug: "  "})
	assert.True(t, IsValidation(err))
}

func TestStatusUpdateSparse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	updated, err := e.statuses.Update(ctx, e.draft.ID, StatusUpdate{Name: strPtr("Drafting")})
	require.NoError(t, err)
	assert.Equal(t, "Drafting", updated.Name)
	assert.Equal(t, "draft", updated.Slug, "slug untouched")
}

// A task keeps its status across a slug rename; the old slug stops matching
// and the new one picks the task up.
func TestStatusSlugRenameFollowsTasks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{Title: "pinned", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)

	_, err = e.statuses.Update(ctx, e.draft.ID, StatusUpdate{Slug: strPtr("drafting")})
	require.NoError(t, err)

	got, err := e.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, e.draft.ID, got.StatusID)

	_, err = e.tasks.Create(ctx, TaskCreate{Title: "old slug", Status: "draft"}, e.alice.ID)
	assert.True(t, IsMissingReference(err))
}

func TestStatusDeleteBlockedWhileReferenced(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{Title: "holds draft", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)

	err = e.statuses.Delete(ctx, e.draft.ID)
	require.True(t, IsConflict(err))
	assert.EqualError(t, err, "operation not possible: status is referenced by tasks")

	require.NoError(t, e.tasks.Delete(ctx, task.ID, e.alice.ID))
	assert.NoError(t, e.statuses.Delete(ctx, e.draft.ID))
}

func TestStatusDeleteNotFound(t *testing.T) {
	e := newEnv(t)

	err := e.statuses.Delete(context.Background(), 9999)
	assert.True(t, IsNotFound(err))
}
