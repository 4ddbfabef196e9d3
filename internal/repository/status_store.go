package repository

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/models"
)

const statusColumns = "id, name, slug, created_at"

type StatusStore struct {
	q       sqlx.ExtContext
	dialect string
}

// List returns all task statuses in id order.
func (s *StatusStore) List(ctx context.Context) ([]models.TaskStatus, error) {
	var statuses []models.TaskStatus
	query := "SELECT " + statusColumns + " FROM task_statuses ORDER BY id"
	if err := sqlx.SelectContext(ctx, s.q, &statuses, query); err != nil {
		return nil, fmt.Errorf("query task statuses: %w", err)
	}
	return statuses, nil
}

func (s *StatusStore) Get(ctx context.Context, id int64) (*models.TaskStatus, error) {
	var st models.TaskStatus
	query := s.q.Rebind("SELECT " + statusColumns + " FROM task_statuses WHERE id = ?")
	if err := sqlx.GetContext(ctx, s.q, &st, query, id); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StatusStore) GetBySlug(ctx context.Context, slug string) (*models.TaskStatus, error) {
	var st models.TaskStatus
	query := s.q.Rebind("SELECT " + statusColumns + " FROM task_statuses WHERE slug = ?")
	if err := sqlx.GetContext(ctx, s.q, &st, query, slug); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StatusStore) Create(ctx context.Context, st *models.TaskStatus) error {
	st.CreatedAt = time.Now().UTC()

	b := sql.Dialect(s.dialect).
		Insert("task_statuses").
		Columns("name", "slug", "created_at").
		Values(st.Name, st.Slug, st.CreatedAt)

	id, err := insertID(ctx, s.q, s.dialect, b)
	if err != nil {
		return fmt.Errorf("insert task status: %w", err)
	}
	st.ID = id
	return nil
}

func (s *StatusStore) Update(ctx context.Context, st *models.TaskStatus) error {
	query, args := sql.Dialect(s.dialect).
		Update("task_statuses").
		Set("name", st.Name).
		Set("slug", st.Slug).
		Where(sql.EQ("id", st.ID)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

func (s *StatusStore) Delete(ctx context.Context, id int64) error {
	query, args := sql.Dialect(s.dialect).
		Delete("task_statuses").
		Where(sql.EQ("id", id)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task status: %w", err)
	}
	return nil
}
