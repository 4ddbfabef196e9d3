package repository

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/models"
)

const labelColumns = "id, name, created_at"

type LabelStore struct {
	q       sqlx.ExtContext
	dialect string
}

// List returns all labels in id order.
func (s *LabelStore) List(ctx context.Context) ([]models.Label, error) {
	var labels []models.Label
	query := "SELECT " + labelColumns + " FROM labels ORDER BY id"
	if err := sqlx.SelectContext(ctx, s.q, &labels, query); err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	return labels, nil
}

func (s *LabelStore) Get(ctx context.Context, id int64) (*models.Label, error) {
	var l models.Label
	query := s.q.Rebind("SELECT " + labelColumns + " FROM labels WHERE id = ?")
	if err := sqlx.GetContext(ctx, s.q, &l, query, id); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByIDs returns the labels whose ids are in ids, in id order. Missing ids
// are not an error here; callers compare lengths to detect them.
func (s *LabelStore) GetByIDs(ctx context.Context, ids []int64) ([]models.Label, error) {
	if len(ids) == 0 {
		return []models.Label{}, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	d := sql.Dialect(s.dialect)
	query, qargs := d.Select("id", "name", "created_at").
		From(d.Table("labels")).
		Where(sql.In("id", args...)).
		OrderBy("id").
		Query()

	var labels []models.Label
	if err := sqlx.SelectContext(ctx, s.q, &labels, query, qargs...); err != nil {
		return nil, fmt.Errorf("query labels by ids: %w", err)
	}
	return labels, nil
}

func (s *LabelStore) Create(ctx context.Context, l *models.Label) error {
	l.CreatedAt = time.Now().UTC()

	b := sql.Dialect(s.dialect).
		Insert("labels").
		Columns("name", "created_at").
		Values(l.Name, l.CreatedAt)

	id, err := insertID(ctx, s.q, s.dialect, b)
	if err != nil {
		return fmt.Errorf("insert label: %w", err)
	}
	l.ID = id
	return nil
}

func (s *LabelStore) Update(ctx context.Context, l *models.Label) error {
	query, args := sql.Dialect(s.dialect).
		Update("labels").
		Set("name", l.Name).
		Where(sql.EQ("id", l.ID)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update label: %w", err)
	}
	return nil
}

func (s *LabelStore) Delete(ctx context.Context, id int64) error {
	query, args := sql.Dialect(s.dialect).
		Delete("labels").
		Where(sql.EQ("id", id)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete label: %w", err)
	}
	return nil
}
