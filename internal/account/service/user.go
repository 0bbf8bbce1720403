package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/store"
	"github.com/halcyonlabs/accountd/pkg/cryptox"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

// UserService covers profile self-management for an already-authenticated
// account. Role and status are deliberately outside its reach.
type UserService struct {
	Store store.Store
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// UpdateProfile changes email and/or full name. Empty arguments keep the
// current value. Changing email re-checks uniqueness and surfaces a collision
// as ErrEmailTaken. Only these two fields are reachable from this path.
func (s *UserService) UpdateProfile(ctx context.Context, userID, email, fullName string) (domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	newEmail := user.Email
	if email != "" {
		newEmail = domain.NormalizeEmail(email)
	}
	newName := user.FullName
	if strings.TrimSpace(fullName) != "" {
		newName = strings.TrimSpace(fullName)
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, newEmail, newName); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	slogx.FromContext(ctx).Info("profile updated", "user_id", userID)
	return s.GetByID(ctx, userID)
}

// ChangePassword verifies the current password before swapping in a hash of
// the new one. The swap is a single statement: either the hash is fully
// replaced or the account is untouched.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}
