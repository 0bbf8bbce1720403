package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/store"
	"github.com/halcyonlabs/accountd/pkg/cryptox"
	"github.com/halcyonlabs/accountd/pkg/idx"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

// BootstrapService seeds the initial admin account. Role changes have no
// self-service path, so a fresh deployment needs one admin created
// out-of-band; this is that band.
type BootstrapService struct {
	Store         store.Store
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// EnsureAdmin creates the configured admin account if it does not exist yet.
// It is a no-op when no admin credentials are configured or the account is
// already present, so it is safe to run on every startup.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) error {
	if s.AdminEmail == "" || s.AdminPassword == "" {
		return nil
	}

	log := slogx.FromContext(ctx)
	email := domain.NormalizeEmail(s.AdminEmail)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	hash, err := cryptox.HashPassword(s.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	name := s.AdminName
	if name == "" {
		name = "Administrator"
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		// Lost a race against another instance seeding the same admin.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}

	log.Info("seeded initial admin account", "user_id", admin.ID, "email", email)
	return nil
}
