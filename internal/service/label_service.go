package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type LabelService struct {
	store *repository.Store
}

func NewLabelService(store *repository.Store) *LabelService {
	return &LabelService{store: store}
}

type LabelCreate struct {
	Name string
}

type LabelUpdate struct {
	Name *string
}

func (s *LabelService) List(ctx context.Context) ([]models.Label, error) {
	return s.store.Labels.List(ctx)
}

func (s *LabelService) Get(ctx context.Context, id int64) (*models.Label, error) {
	label, err := s.store.Labels.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "Label", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get label: %w", err)
	}
	return label, nil
}

func (s *LabelService) Create(ctx context.Context, in LabelCreate) (*models.Label, error) {
	if err := validateLabelName(in.Name); err != nil {
		return nil, err
	}

	label := &models.Label{Name: in.Name}
	if err := s.store.Labels.Create(ctx, label); err != nil {
		return nil, fmt.Errorf("create label: %w", err)
	}
	return label, nil
}

func (s *LabelService) Update(ctx context.Context, id int64, in LabelUpdate) (*models.Label, error) {
	var label *models.Label
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		l, err := tx.Labels.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "Label", ID: id}
		}
		if err != nil {
			return fmt.Errorf("get label: %w", err)
		}

		if in.Name != nil {
			if err := validateLabelName(*in.Name); err != nil {
				return err
			}
			l.Name = *in.Name
		}

		if err := tx.Labels.Update(ctx, l); err != nil {
			return fmt.Errorf("update label: %w", err)
		}
		label = l
		return nil
	})
	return label, err
}

// Delete removes a label unless a task still carries it.
func (s *LabelService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Labels.Get(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "Label", ID: id}
			}
			return fmt.Errorf("get label: %w", err)
		}

		referenced, err := tx.Tasks.ExistsWithLabel(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return &ConflictError{Reason: "operation not possible: label is referenced by tasks"}
		}

		if err := tx.Labels.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete label: %w", err)
		}
		return nil
	})
}

func validateLabelName(name string) error {
	if len(name) < 3 || len(name) > 1000 {
		return &ValidationError{Field: "name", Reason: "must be between 3 and 1000 characters"}
	}
	return nil
}
