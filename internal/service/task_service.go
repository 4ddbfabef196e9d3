package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/nullable"
)

type TaskService struct {
	store *repository.Store
}

func NewTaskService(store *repository.Store) *TaskService {
	return &TaskService{store: store}
}

// TaskCreate is the payload for creating a task. Status is the status slug;
// a nil LabelIDs means no labels.
type TaskCreate struct {
	Index      *int64
	AssigneeID *int64
	Title      string
	Content    *string
	Status     string
	LabelIDs   []int64
}

// TaskUpdate is a sparse change-set. Every field is three-state: omitted
// fields are left alone, null clears where the field is clearable, and a
// value overwrites. Reference fields are re-resolved only when supplied.
type TaskUpdate struct {
	Index      nullable.Nullable[int64]
	AssigneeID nullable.Nullable[int64]
	Title      nullable.Nullable[string]
	Content    nullable.Nullable[string]
	Status     nullable.Nullable[string]
	LabelIDs   nullable.Nullable[[]int64]
}

// List returns the tasks matching every supplied filter dimension.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	return s.store.Tasks.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.store.Tasks.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "Task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Create resolves the payload's references and inserts the task. The author
// is always the acting principal; it is never taken from the payload.
func (s *TaskService) Create(ctx context.Context, in TaskCreate, authorID int64) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if in.Status == "" {
		return nil, &ValidationError{Field: "status", Reason: "is required"}
	}

	var task *models.Task
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		refs, err := resolveTaskRefs(ctx, tx, refInput{
			statusSlug: &in.Status,
			assigneeID: in.AssigneeID,
			labelIDs:   in.LabelIDs,
			labelsSet:  in.LabelIDs != nil,
		})
		if err != nil {
			return err
		}

		t := &models.Task{
			Title:    in.Title,
			AuthorID: authorID,
			StatusID: refs.status.ID,
			LabelIDs: labelIDs(refs.labels),
		}
		if in.Index != nil {
			t.Index = sql.NullInt64{Int64: *in.Index, Valid: true}
		}
		if in.Content != nil {
			t.Content = sql.NullString{String: *in.Content, Valid: true}
		}
		if refs.assignee != nil {
			t.AssigneeID = sql.NullInt64{Int64: refs.assignee.ID, Valid: true}
		}

		if err := tx.Tasks.Create(ctx, t); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		task = t
		return nil
	})
	return task, err
}

// Update merges a sparse change-set into the task. Resolution of the supplied
// reference fields and the write happen inside one transaction: either every
// supplied field is applied and saved, or nothing changes.
func (s *TaskService) Update(ctx context.Context, id int64, in TaskUpdate) (*models.Task, error) {
	if in.Title.IsSet() {
		title, ok := in.Title.Get()
		if !ok || strings.TrimSpace(title) == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be blank"}
		}
	}
	if in.Status.IsNull() {
		return nil, &ValidationError{Field: "status", Reason: "must not be null"}
	}

	var task *models.Task
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "Task", ID: id}
		}
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}

		var ref refInput
		if slug, ok := in.Status.Get(); ok {
			ref.statusSlug = &slug
		}
		if assigneeID, ok := in.AssigneeID.Get(); ok {
			ref.assigneeID = &assigneeID
		}
		if ids, ok := in.LabelIDs.Get(); ok {
			ref.labelIDs = ids
			ref.labelsSet = true
		}

		refs, err := resolveTaskRefs(ctx, tx, ref)
		if err != nil {
			return err
		}

		applyTaskUpdate(t, in, refs)

		if err := tx.Tasks.Update(ctx, t); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		task = t
		return nil
	})
	return task, err
}

// applyTaskUpdate merges the supplied fields into the task. Omitted fields
// are not touched; the author is immutable and has no corresponding field.
func applyTaskUpdate(t *models.Task, in TaskUpdate, refs *taskRefs) {
	if in.Index.IsSet() {
		if v, ok := in.Index.Get(); ok {
			t.Index = sql.NullInt64{Int64: v, Valid: true}
		} else {
			t.Index = sql.NullInt64{}
		}
	}
	if title, ok := in.Title.Get(); ok {
		t.Title = title
	}
	if in.Content.IsSet() {
		if v, ok := in.Content.Get(); ok {
			t.Content = sql.NullString{String: v, Valid: true}
		} else {
			t.Content = sql.NullString{}
		}
	}
	if refs.status != nil {
		t.StatusID = refs.status.ID
	}
	if in.AssigneeID.IsSet() {
		if refs.assignee != nil {
			t.AssigneeID = sql.NullInt64{Int64: refs.assignee.ID, Valid: true}
		} else {
			t.AssigneeID = sql.NullInt64{}
		}
	}
	if in.LabelIDs.IsSet() {
		// A supplied list replaces the whole set; null clears it.
		t.LabelIDs = labelIDs(refs.labels)
	}
}

// Delete removes a task. Only the author may delete it; anyone else gets a
// Conflict. Check and delete run in one transaction.
func (s *TaskService) Delete(ctx context.Context, id int64, actingUserID int64) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		t, err := tx.Tasks.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "Task", ID: id}
		}
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}

		if t.AuthorID != actingUserID {
			return &ConflictError{Reason: "operation not possible: only the author can delete a task"}
		}

		if err := tx.Tasks.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

func labelIDs(labels []models.Label) []int64 {
	ids := make([]int64, len(labels))
	for i, l := range labels {
		ids[i] = l.ID
	}
	return ids
}
