package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/nullable"
)

func TestTaskCreateResolvesReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{
		Index:      intPtr(12),
		AssigneeID: &e.bob.ID,
		Title:      "Write the changelog",
		Content:    strPtr("cover the breaking changes"),
		Status:     "draft",
		LabelIDs:   []int64{e.bug.ID},
	}, e.alice.ID)
	require.NoError(t, err)

	assert.Equal(t, e.alice.ID, task.AuthorID, "author comes from the acting user")
	assert.Equal(t, e.draft.ID, task.StatusID)
	assert.Equal(t, e.bob.ID, task.AssigneeID.Int64)
	assert.Equal(t, int64(12), task.Index.Int64)
	assert.Equal(t, []int64{e.bug.ID}, task.LabelIDs)
}

func TestTaskCreateMinimalPayload(t *testing.T) {
	e := newEnv(t)

	task, err := e.tasks.Create(context.Background(), TaskCreate{
		Title:  "bare minimum",
		Status: "draft",
	}, e.alice.ID)
	require.NoError(t, err)

	assert.False(t, task.Index.Valid)
	assert.False(t, task.Content.Valid)
	assert.False(t, task.AssigneeID.Valid)
	assert.Empty(t, task.LabelIDs)
}

func TestTaskCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.tasks.Create(ctx, TaskCreate{Title: "  ", Status: "draft"}, e.alice.ID)
	assert.True(t, IsValidation(err))

	_, err = e.tasks.Create(ctx, TaskCreate{Title: "no status"}, e.alice.ID)
	assert.True(t, IsValidation(err))
}

func TestTaskCreateCollectsAllMissingReferences(t *testing.T) {
	e := newEnv(t)

	_, err := e.tasks.Create(context.Background(), TaskCreate{
		Title:      "dangling everywhere",
		Status:     "no_such_status",
		AssigneeID: intPtr(9999),
		LabelIDs:   []int64{e.bug.ID, 777, 888},
	}, e.alice.ID)

	var missing *MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{`status "no_such_status"`, "assignee 9999", "label 777", "label 888"}, missing.Refs)
}

func TestTaskCreateMissingReferenceWritesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.tasks.Create(ctx, TaskCreate{
		Title:  "never lands",
		Status: "no_such_status",
	}, e.alice.ID)
	require.True(t, IsMissingReference(err))

	tasks, err := e.tasks.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskGetNotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.tasks.Get(context.Background(), 9999)
	assert.True(t, IsNotFound(err))
}

func TestTaskUpdateThreeStateContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{
		Title:   "content lifecycle",
		Content: strPtr("initial body"),
		Status:  "draft",
	}, e.alice.ID)
	require.NoError(t, err)

	// Omitted: content untouched.
	updated, err := e.tasks.Update(ctx, task.ID, TaskUpdate{
		Title: nullable.Value("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	require.True(t, updated.Content.Valid)
	assert.Equal(t, "initial body", updated.Content.String)

	// Value: content overwritten.
	updated, err = e.tasks.Update(ctx, task.ID, TaskUpdate{
		Content: nullable.Value("rewritten body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "rewritten body", updated.Content.String)

	// Null: content cleared.
	updated, err = e.tasks.Update(ctx, task.ID, TaskUpdate{
		Content: nullable.Null[string](),
	})
	require.NoError(t, err)
	assert.False(t, updated.Content.Valid)
}

func TestTaskUpdateAllOmittedChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{
		Index:      intPtr(3),
		AssigneeID: &e.bob.ID,
		Title:      "steady state",
		Content:    strPtr("body"),
		Status:     "draft",
		LabelIDs:   []int64{e.bug.ID},
	}, e.alice.ID)
	require.NoError(t, err)

	updated, err := e.tasks.Update(ctx, task.ID, TaskUpdate{})
	require.NoError(t, err)

	assert.Equal(t, task.Title, updated.Title)
	assert.Equal(t, task.Content, updated.Content)
	assert.Equal(t, task.Index, updated.Index)
	assert.Equal(t, task.AssigneeID, updated.AssigneeID)
	assert.Equal(t, task.StatusID, updated.StatusID)
	assert.Equal(t, task.LabelIDs, updated.LabelIDs)
}

func TestTaskUpdateClearsAssignee(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{
		Title:      "unassign me",
		Status:     "draft",
		AssigneeID: &e.bob.ID,
	}, e.alice.ID)
	require.NoError(t, err)
	require.True(t, task.AssigneeID.Valid)

	updated, err := e.tasks.Update(ctx, task.ID, TaskUpdate{
		AssigneeID: nullable.Null[int64](),
	})
	require.NoError(t, err)
	assert.False(t, updated.AssigneeID.Valid)
}

func TestTaskUpdateReplacesAndClearsLabels(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{
		Title:    "relabel",
		Status:   "draft",
		LabelIDs: []int64{e.bug.ID},
	}, e.alice.ID)
	require.NoError(t, err)

	updated, err := e.tasks.Update(ctx, task.ID, TaskUpdate{
		LabelIDs: nullable.Value([]int64{e.chore.ID}),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{e.chore.ID}, updated.LabelIDs)

	updated, err = e.tasks.Update(ctx, task.ID, TaskUpdate{
		LabelIDs: nullable.Null[[]int64](),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.LabelIDs)
}

func TestTaskUpdateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{Title: "valid", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)

	_, err = e.tasks.Update(ctx, task.ID, TaskUpdate{Title: nullable.Null[string]()})
	assert.True(t, IsValidation(err), "title cannot be cleared")

	_, err = e.tasks.Update(ctx, task.ID, TaskUpdate{Title: nullable.Value("   ")})
	assert.True(t, IsValidation(err))

	_, err = e.tasks.Update(ctx, task.ID, TaskUpdate{Status: nullable.Null[string]()})
	assert.True(t, IsValidation(err), "status cannot be cleared")
}

func TestTaskUpdateNotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.tasks.Update(context.Background(), 9999, TaskUpdate{
		Title: nullable.Value("ghost"),
	})
	assert.True(t, IsNotFound(err))
}

// A bad status slug in the change-set must leave every other supplied field
// unapplied.
func TestTaskUpdateAtomicOnBadReference(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{Title: "before", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)

	_, err = e.tasks.Update(ctx, task.ID, TaskUpdate{
		Title:  nullable.Value("after"),
		Status: nullable.Value("no_such_status"),
	})
	require.True(t, IsMissingReference(err))

	got, err := e.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title)
	assert.Equal(t, e.draft.ID, got.StatusID)
}

func TestTaskDeleteByAuthor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{Title: "mine", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)

	require.NoError(t, e.tasks.Delete(ctx, task.ID, e.alice.ID))

	_, err = e.tasks.Get(ctx, task.ID)
	assert.True(t, IsNotFound(err))
}

func TestTaskDeleteByNonAuthorConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{Title: "not yours", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)

	err = e.tasks.Delete(ctx, task.ID, e.bob.ID)
	assert.True(t, IsConflict(err))

	_, err = e.tasks.Get(ctx, task.ID)
	assert.NoError(t, err, "the task survives")
}

func TestTaskDeleteNotFound(t *testing.T) {
	e := newEnv(t)

	err := e.tasks.Delete(context.Background(), 9999, e.alice.ID)
	assert.True(t, IsNotFound(err))
}

func TestTaskListByStatusScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	drafted, err := e.tasks.Create(ctx, TaskCreate{Title: "still drafting", Status: "draft"}, e.alice.ID)
	require.NoError(t, err)
	published, err := e.tasks.Create(ctx, TaskCreate{Title: "shipped", Status: "published"}, e.alice.ID)
	require.NoError(t, err)

	forSlug := func(slug string) []models.Task {
		tasks, err := e.tasks.List(ctx, repository.TaskFilter{StatusSlug: &slug})
		require.NoError(t, err)
		return tasks
	}

	draftList := forSlug("draft")
	require.Len(t, draftList, 1)
	assert.Equal(t, drafted.ID, draftList[0].ID)

	publishedList := forSlug("published")
	require.Len(t, publishedList, 1)
	assert.Equal(t, published.ID, publishedList[0].ID)
}

// A label blocked by a task becomes deletable once the task drops it.
func TestLabelGuardLiftsAfterRelabel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task, err := e.tasks.Create(ctx, TaskCreate{
		Title:    "holds the label",
		Status:   "draft",
		LabelIDs: []int64{e.bug.ID},
	}, e.alice.ID)
	require.NoError(t, err)

	err = e.labels.Delete(ctx, e.bug.ID)
	require.True(t, IsConflict(err))

	_, err = e.tasks.Update(ctx, task.ID, TaskUpdate{
		LabelIDs: nullable.Value([]int64{e.chore.ID}),
	})
	require.NoError(t, err)

	assert.NoError(t, e.labels.Delete(ctx, e.bug.ID))
}
