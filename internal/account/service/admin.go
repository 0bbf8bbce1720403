package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/store"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AdminService covers the admin-only account management operations. The
// caller's identity is threaded in explicitly so the self-action guard is
// part of the operation, not ambient request state.
type AdminService struct {
	Store store.Store
}

// UserListing is a page of users with pagination metadata.
type UserListing struct {
	Users      []domain.Identity
	Page       int
	TotalPages int
	TotalUsers int64
	PerPage    int
}

// ListUsers returns a page of accounts, newest first. Out-of-range inputs
// are clamped rather than rejected.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (UserListing, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, err := s.Store.Users().ListUsers(ctx, store.ListPage{Page: page, Limit: limit})
	if err != nil {
		return UserListing{}, fmt.Errorf("list users: %w", err)
	}

	total, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return UserListing{}, fmt.Errorf("count users: %w", err)
	}

	identities := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, u.Identity())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return UserListing{
		Users:      identities,
		Page:       page,
		TotalPages: totalPages,
		TotalUsers: total,
		PerPage:    limit,
	}, nil
}

// SetUserStatus activates or deactivates the target account. The self-action
// guard runs before the target lookup: an admin can never flip their own
// status, and a nonexistent target equal to the caller's id never reveals
// whether it exists.
func (s *AdminService) SetUserStatus(ctx context.Context, actorID, targetID string, status domain.Status) (domain.User, error) {
	if actorID == targetID {
		return domain.User{}, ErrSelfAction
	}
	if !status.Valid() {
		return domain.User{}, fmt.Errorf("invalid status %q", status)
	}

	if err := s.Store.Users().UpdateStatus(ctx, targetID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update status: %w", err)
	}

	user, err := s.Store.Users().GetUserByID(ctx, targetID)
	if err != nil {
		return domain.User{}, fmt.Errorf("reload user: %w", err)
	}

	slogx.FromContext(ctx).Info("account status changed",
		"actor_id", actorID,
		"user_id", targetID,
		"status", string(status),
	)
	return user, nil
}
