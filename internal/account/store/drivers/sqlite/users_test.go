package sqlite_test

import (
	"context"
	"testing"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/store"
	"github.com/halcyonlabs/accountd/internal/account/store/drivers/sqlite"
	"github.com/halcyonlabs/accountd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser(email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleMember,
		Status:       domain.StatusActive,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser("alice@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.RoleMember, got.Role)
	require.Equal(t, domain.StatusActive, got.Status)
	require.Nil(t, got.LastLogin)
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, newTestUser("dup@example.com")))

	err := st.Users().CreateUser(ctx, newTestUser("dup@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser("old@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Users().CreateUser(ctx, newTestUser("taken@example.com")))

	require.NoError(t, st.Users().UpdateProfile(ctx, u.ID, "new@example.com", "New Name"))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
	require.Equal(t, "New Name", got.FullName)

	// Moving onto an email someone else holds trips the unique index.
	err = st.Users().UpdateProfile(ctx, u.ID, "taken@example.com", "New Name")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = st.Users().UpdateProfile(ctx, "missing", "x@example.com", "X")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatusAndPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser("bob@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().UpdateStatus(ctx, u.ID, domain.StatusInactive))
	require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "$argon2id$new"))
	require.NoError(t, st.Users().UpdateLastLogin(ctx, u.ID))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, got.Status)
	require.Equal(t, "$argon2id$new", got.PasswordHash)
	require.NotNil(t, got.LastLogin)

	require.ErrorIs(t, st.Users().UpdateStatus(ctx, "missing", domain.StatusActive), store.ErrNotFound)
}

func TestListAndCountUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, st.Users().CreateUser(ctx, newTestUser(email)))
	}

	count, err := st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	page, err := st.Users().ListUsers(ctx, store.ListPage{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)

	rest, err := st.Users().ListUsers(ctx, store.ListPage{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
}
