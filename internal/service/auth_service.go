package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/repository"
	"taskboard/pkg/auth"
)

type AuthService struct {
	store     *repository.Store
	passwords *auth.PasswordManager
	tokens    *auth.TokenManager
}

func NewAuthService(store *repository.Store, passwords *auth.PasswordManager, tokens *auth.TokenManager) *AuthService {
	return &AuthService{store: store, passwords: passwords, tokens: tokens}
}

// Login verifies the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("get user by email: %w", err)
	}

	if err := s.passwords.ComparePassword(user.PasswordDigest, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
