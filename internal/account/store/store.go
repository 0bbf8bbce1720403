package store

import (
	"context"
	"errors"

	"github.com/halcyonlabs/accountd/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// ListPage bounds an admin listing. Page is 1-based.
type ListPage struct {
	Page  int
	Limit int
}

func (p ListPage) Offset() int { return (p.Page - 1) * p.Limit }

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by normalized email; used during login
	// and email-uniqueness checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A normalized-email collision returns ErrAlreadyExists; uniqueness is
	// enforced by the database, so concurrent signups racing on the same
	// email resolve here.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates email and full_name and bumps updated_at.
	// An email collision returns ErrAlreadyExists.
	UpdateProfile(ctx context.Context, userID, email, fullName string) error

	// UpdatePasswordHash swaps the password_hash in a single statement and
	// bumps updated_at; the account is never observable mid-change.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateStatus flips the account status and bumps updated_at.
	UpdateStatus(ctx context.Context, userID string, status domain.Status) error

	// UpdateLastLogin stamps last_login on successful authentication.
	UpdateLastLogin(ctx context.Context, userID string) error

	// ListUsers returns a page of users, newest first.
	ListUsers(ctx context.Context, page ListPage) ([]domain.User, error)

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int64, error)

	// IsEmpty reports whether there are no users; used by admin seeding.
	IsEmpty(ctx context.Context) (bool, error)
}
