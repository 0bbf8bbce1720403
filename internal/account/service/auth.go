package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/store"
	"github.com/halcyonlabs/accountd/pkg/cryptox"
	"github.com/halcyonlabs/accountd/pkg/idx"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

// AuthService implements signup and login. It owns the only two paths that
// mint tokens.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Signup creates a new member account and returns it with a fresh token.
// Email uniqueness is delegated to the store's unique index, so two signups
// racing on the same address resolve there and surface as ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        domain.NormalizeEmail(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         domain.RoleMember,
		Status:       domain.StatusActive,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	// Re-read so the caller sees store-assigned timestamps.
	user, err = s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("load created user: %w", err)
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	log.Info("user signed up", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates an email/password pair and returns the account with a
// fresh token. A missing account and a wrong password both come back as
// ErrInvalidCredentials; a deactivated account is reported as
// ErrAccountDisabled regardless of credential validity.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if user.Status == domain.StatusInactive {
		log.Info("login blocked for deactivated account", "user_id", user.ID)
		return domain.User{}, "", ErrAccountDisabled
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login password mismatch", "user_id", user.ID)
		return domain.User{}, "", ErrInvalidCredentials
	}

	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID); err != nil {
		return domain.User{}, "", fmt.Errorf("stamp last login: %w", err)
	}
	user, err = s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("reload user: %w", err)
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}
