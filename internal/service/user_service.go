package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/auth"
)

type UserService struct {
	store     *repository.Store
	passwords *auth.PasswordManager
}

func NewUserService(store *repository.Store, passwords *auth.PasswordManager) *UserService {
	return &UserService{store: store, passwords: passwords}
}

type UserCreate struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UserUpdate is sparse: nil fields are left unchanged. A supplied password
// is re-hashed.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Users.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "User", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, in UserCreate) (*models.User, error) {
	if !strings.Contains(in.Email, "@") {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}

	digest, err := s.passwords.HashPassword(in.Password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Reason: err.Error()}
	}

	user := &models.User{
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PasswordDigest: digest,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in UserUpdate) (*models.User, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		u, err := tx.Users.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "User", ID: id}
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Password != nil {
			digest, err := s.passwords.HashPassword(*in.Password)
			if err != nil {
				return &ValidationError{Field: "password", Reason: err.Error()}
			}
			u.PasswordDigest = digest
		}

		if err := tx.Users.Update(ctx, u); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		user = u
		return nil
	})
	return user, err
}

// Delete removes a user unless any task still names them as author or
// assignee. The check and the delete run in one transaction; the RESTRICT
// foreign keys catch a racing task insert.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.Get(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "User", ID: id}
			}
			return fmt.Errorf("get user: %w", err)
		}

		referenced, err := tx.Tasks.ExistsForUser(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return &ConflictError{Reason: "operation not possible: user is referenced by tasks"}
		}

		if err := tx.Users.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
