package repository

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/models"
)

const userColumns = "id, email, first_name, last_name, password_digest, created_at, updated_at"

type UserStore struct {
	q       sqlx.ExtContext
	dialect string
}

// List returns all users in id order.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := "SELECT " + userColumns + " FROM users ORDER BY id"
	if err := sqlx.SelectContext(ctx, s.q, &users, query); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	query := s.q.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	if err := sqlx.GetContext(ctx, s.q, &u, query, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	query := s.q.Rebind("SELECT " + userColumns + " FROM users WHERE email = ?")
	if err := sqlx.GetContext(ctx, s.q, &u, query, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user and fills in its id and timestamps.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	b := sql.Dialect(s.dialect).
		Insert("users").
		Columns("email", "first_name", "last_name", "password_digest", "created_at", "updated_at").
		Values(u.Email, u.FirstName, u.LastName, u.PasswordDigest, u.CreatedAt, u.UpdatedAt)

	id, err := insertID(ctx, s.q, s.dialect, b)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

// Update writes the full row back and bumps updated_at.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()

	query, args := sql.Dialect(s.dialect).
		Update("users").
		Set("email", u.Email).
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("password_digest", u.PasswordDigest).
		Set("updated_at", u.UpdatedAt).
		Where(sql.EQ("id", u.ID)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	query, args := sql.Dialect(s.dialect).
		Delete("users").
		Where(sql.EQ("id", id)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
