package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/service"
	"github.com/stretchr/testify/require"
)

func TestSetUserStatus(t *testing.T) {
	ctx := context.Background()
	st, auth := newFixture(t)
	admin := &service.AdminService{Store: st}

	actor, _, err := auth.Signup(ctx, "admin@example.com", "Admin123", "Admin User")
	require.NoError(t, err)
	target, _, err := auth.Signup(ctx, "member@example.com", "Abc123", "Member User")
	require.NoError(t, err)

	t.Run("deactivate and reactivate", func(t *testing.T) {
		updated, err := admin.SetUserStatus(ctx, actor.ID, target.ID, domain.StatusInactive)
		require.NoError(t, err)
		require.Equal(t, domain.StatusInactive, updated.Status)

		updated, err = admin.SetUserStatus(ctx, actor.ID, target.ID, domain.StatusActive)
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, updated.Status)
	})

	t.Run("self action rejected before lookup", func(t *testing.T) {
		_, err := admin.SetUserStatus(ctx, actor.ID, actor.ID, domain.StatusInactive)
		require.ErrorIs(t, err, service.ErrSelfAction)

		// Also for ids that don't exist: equality wins over existence.
		_, err = admin.SetUserStatus(ctx, "ghost", "ghost", domain.StatusInactive)
		require.ErrorIs(t, err, service.ErrSelfAction)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := admin.SetUserStatus(ctx, actor.ID, "missing", domain.StatusInactive)
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("invalid status value", func(t *testing.T) {
		_, err := admin.SetUserStatus(ctx, actor.ID, target.ID, domain.Status("frozen"))
		require.Error(t, err)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	st, auth := newFixture(t)
	admin := &service.AdminService{Store: st}

	for i := 0; i < 5; i++ {
		_, _, err := auth.Signup(ctx, fmt.Sprintf("user%d@example.com", i), "Abc123", "Listed User")
		require.NoError(t, err)
	}

	listing, err := admin.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, listing.Users, 2)
	require.Equal(t, 1, listing.Page)
	require.Equal(t, 3, listing.TotalPages)
	require.EqualValues(t, 5, listing.TotalUsers)

	// Newest first: the last signup leads the first page.
	require.Equal(t, "user4@example.com", listing.Users[0].Email)

	// Clamped inputs instead of errors.
	listing, err = admin.ListUsers(ctx, 0, -1)
	require.NoError(t, err)
	require.Equal(t, 1, listing.Page)
	require.Equal(t, 10, listing.PerPage)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	st, _ := newFixture(t)

	boot := &service.BootstrapService{
		Store:         st,
		AdminEmail:    "Root@Example.com",
		AdminPassword: "Admin123",
	}

	require.NoError(t, boot.EnsureAdmin(ctx))

	u, err := st.Users().GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)
	require.Equal(t, domain.StatusActive, u.Status)
	require.Equal(t, "Administrator", u.FullName)

	// Idempotent on restart.
	require.NoError(t, boot.EnsureAdmin(ctx))
	count, err := st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestEnsureAdminUnconfigured(t *testing.T) {
	ctx := context.Background()
	st, _ := newFixture(t)

	boot := &service.BootstrapService{Store: st}
	require.NoError(t, boot.EnsureAdmin(ctx))

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}
