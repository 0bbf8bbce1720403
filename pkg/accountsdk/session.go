package accountsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
)

// Session is an authenticated handle on one account. Tokens are stateless
// and carry no refresh flow: when the token expires the caller logs in again.
// Sessions are safe for concurrent use.
type Session struct {
	client *Client

	mu       sync.RWMutex
	token    string
	identity Identity
}

func newSession(c *Client, data authData) *Session {
	return &Session{
		client:   c,
		token:    data.Token,
		identity: data.User,
	}
}

// Token returns the bearer token, e.g. for persisting across restarts.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the account view from the last server response.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) setIdentity(identity Identity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
}

// Me fetches the identity behind the session's token.
func (s *Session) Me(ctx context.Context) (*Identity, error) {
	var data userData
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/auth/me", s.Token(), nil, http.StatusOK, &data); err != nil {
		return nil, err
	}
	s.setIdentity(data.User)
	return &data.User, nil
}

// GetProfile fetches the account's profile.
func (s *Session) GetProfile(ctx context.Context) (*Identity, error) {
	var data userData
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/users/profile", s.Token(), nil, http.StatusOK, &data); err != nil {
		return nil, err
	}
	s.setIdentity(data.User)
	return &data.User, nil
}

// UpdateProfile changes email and/or full name.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Identity, error) {
	var data userData
	if err := s.client.doJSON(ctx, http.MethodPut, "/api/users/profile", s.Token(), req, http.StatusOK, &data); err != nil {
		return nil, err
	}
	s.setIdentity(data.User)
	return &data.User, nil
}

// ChangePassword swaps the account password. Existing tokens, this session's
// included, stay valid until expiry.
func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return s.client.doJSON(ctx, http.MethodPut, "/api/users/change-password", s.Token(), body, http.StatusOK, nil)
}

// Logout tells the service the session is done. The token itself remains
// valid until expiry; callers should discard it.
func (s *Session) Logout(ctx context.Context) error {
	return s.client.doJSON(ctx, http.MethodPost, "/api/auth/logout", s.Token(), nil, http.StatusOK, nil)
}

// ListUsers returns one page of accounts, newest first. Requires the admin
// role.
func (s *Session) ListUsers(ctx context.Context, page, limit int) (*UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/admin/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var data UserPage
	if err := s.client.doJSON(ctx, http.MethodGet, path, s.Token(), nil, http.StatusOK, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ActivateUser re-enables the target account. Requires the admin role.
func (s *Session) ActivateUser(ctx context.Context, userID string) (*Identity, error) {
	return s.setUserStatus(ctx, userID, "activate")
}

// DeactivateUser blocks the target account from authenticating. Requires the
// admin role.
func (s *Session) DeactivateUser(ctx context.Context, userID string) (*Identity, error) {
	return s.setUserStatus(ctx, userID, "deactivate")
}

func (s *Session) setUserStatus(ctx context.Context, userID, action string) (*Identity, error) {
	path := fmt.Sprintf("/api/admin/users/%s/%s", url.PathEscape(userID), action)

	var data userData
	if err := s.client.doJSON(ctx, http.MethodPut, path, s.Token(), nil, http.StatusOK, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}
