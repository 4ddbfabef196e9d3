package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type StatusService struct {
	store *repository.Store
}

func NewStatusService(store *repository.Store) *StatusService {
	return &StatusService{store: store}
}

type StatusCreate struct {
	Name string
	Slug string
}

// StatusUpdate is sparse: nil fields are left unchanged. The slug may change
// but stays unique; the status keeps its identity either way.
type StatusUpdate struct {
	Name *string
	Slug *string
}

func (s *StatusService) List(ctx context.Context) ([]models.TaskStatus, error) {
	return s.store.Statuses.List(ctx)
}

func (s *StatusService) Get(ctx context.Context, id int64) (*models.TaskStatus, error) {
	status, err := s.store.Statuses.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "TaskStatus", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get task status: %w", err)
	}
	return status, nil
}

func (s *StatusService) Create(ctx context.Context, in StatusCreate) (*models.TaskStatus, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if strings.TrimSpace(in.Slug) == "" {
		return nil, &ValidationError{Field: "slug", Reason: "must not be blank"}
	}

	status := &models.TaskStatus{Name: in.Name, Slug: in.Slug}
	if err := s.store.Statuses.Create(ctx, status); err != nil {
		return nil, fmt.Errorf("create task status: %w", err)
	}
	return status, nil
}

func (s *StatusService) Update(ctx context.Context, id int64, in StatusUpdate) (*models.TaskStatus, error) {
	var status *models.TaskStatus
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		st, err := tx.Statuses.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "TaskStatus", ID: id}
		}
		if err != nil {
			return fmt.Errorf("get task status: %w", err)
		}

		if in.Name != nil {
			st.Name = *in.Name
		}
		if in.Slug != nil {
			st.Slug = *in.Slug
		}

		if err := tx.Statuses.Update(ctx, st); err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		status = st
		return nil
	})
	return status, err
}

// Delete removes a status unless a task still carries it.
func (s *StatusService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Statuses.Get(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "TaskStatus", ID: id}
			}
			return fmt.Errorf("get task status: %w", err)
		}

		referenced, err := tx.Tasks.ExistsWithStatus(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return &ConflictError{Reason: "operation not possible: status is referenced by tasks"}
		}

		if err := tx.Statuses.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete task status: %w", err)
		}
		return nil
	})
}
