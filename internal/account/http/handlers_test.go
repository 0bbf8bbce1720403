package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/halcyonlabs/accountd/internal/account/service"
	"github.com/halcyonlabs/accountd/internal/account/store/drivers/sqlite"
	"github.com/halcyonlabs/accountd/pkg/cryptox"
	"github.com/halcyonlabs/accountd/pkg/jwtx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "accountd-test"

var testSecret = []byte("test-secret-test-secret-test-sec")

type testEnv struct {
	router *Router
	store  *sqlite.Store
	tokens *service.TokenService
	signer jwtx.Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, testIssuer)
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:   signer,
		Verifier: verifier,
		Issuer:   testIssuer,
		TTL:      time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter("test", st, logger)
	r.TokenService = tokens
	r.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	r.UserService = &service.UserService{Store: st}
	r.AdminService = &service.AdminService{Store: st}
	r.ApplyRoutes()

	return &testEnv{router: r, store: st, tokens: tokens, signer: signer}
}

// seedAdmin creates an admin account directly and returns its bearer token.
func (e *testEnv) seedAdmin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	boot := &service.BootstrapService{
		Store:         e.store,
		AdminEmail:    email,
		AdminPassword: password,
		AdminName:     "Admin User",
	}
	require.NoError(t, boot.EnsureAdmin(t.Context()))

	u, err := e.store.Users().GetUserByEmail(t.Context(), email)
	require.NoError(t, err)

	token, err := e.tokens.Issue(u.ID)
	require.NoError(t, err)
	return u.ID, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// userField digs a field out of the data.user object in a response.
func userField(t *testing.T, resp Response, field string) any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "response has no data object")
	user, ok := data["user"].(map[string]any)
	require.True(t, ok, "response data has no user object")
	return user[field]
}

func TestSignupAndFetchProfile(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email":    "Alice@Example.com",
		"password": "Abc123",
		"fullName": "Alice Smith",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", userField(t, resp, "email"))
	assert.Equal(t, "member", userField(t, resp, "role"))
	assert.Equal(t, "active", userField(t, resp, "status"))

	// The password hash never appears in any response shape.
	_, exists := data["user"].(map[string]any)["passwordHash"]
	assert.False(t, exists)

	rec, resp = env.do(t, "GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", userField(t, resp, "email"))

	rec, resp = env.do(t, "GET", "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice Smith", userField(t, resp, "fullName"))
}

func TestSignupValidationAggregated(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email":    "not-an-email",
		"password": "weak",
		"fullName": "X",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Message)
	require.Len(t, resp.Errors, 3)

	fields := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password", "fullName"}, fields)
}

func TestDuplicateSignup(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": "bob@example.com", "password": "Abc123", "fullName": "Bob Jones",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": " BOB@example.com ", "password": "Xyz789", "fullName": "Other Bob",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": "carol@example.com", "password": "Abc123", "fullName": "Carol Reed",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("wrong password", func(t *testing.T) {
		rec, resp := env.do(t, "POST", "/api/auth/login", "", map[string]any{
			"email": "carol@example.com", "password": "Abc124",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", resp.Message)
	})

	t.Run("unknown email looks identical", func(t *testing.T) {
		rec, resp := env.do(t, "POST", "/api/auth/login", "", map[string]any{
			"email": "nobody@example.com", "password": "Abc123",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", resp.Message)
	})
}

func TestAuthMiddlewareRejections(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing header", func(t *testing.T) {
		rec, _ := env.do(t, "GET", "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbled token", func(t *testing.T) {
		rec, _ := env.do(t, "GET", "/api/auth/me", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &service.TokenService{
			Signer: env.signer,
			Issuer: testIssuer,
			TTL:    -time.Hour,
		}
		token, err := expired.Issue("whatever")
		require.NoError(t, err)

		rec, _ := env.do(t, "GET", "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token for unknown account", func(t *testing.T) {
		token, err := env.tokens.Issue("no-such-user")
		require.NoError(t, err)

		rec, _ := env.do(t, "GET", "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProfileUpdateAllowList(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": "dave@example.com", "password": "Abc123", "fullName": "Dave Hill",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := resp.Data.(map[string]any)["token"].(string)

	// A role field in the body changes nothing: only email and fullName are
	// reachable from this endpoint.
	rec, resp = env.do(t, "PUT", "/api/users/profile", token, map[string]any{
		"fullName": "Dave Hall",
		"role":     "admin",
		"status":   "inactive",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dave Hall", userField(t, resp, "fullName"))
	assert.Equal(t, "member", userField(t, resp, "role"))
	assert.Equal(t, "active", userField(t, resp, "status"))
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": "erin@example.com", "password": "Abc123", "fullName": "Erin Vale",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := resp.Data.(map[string]any)["token"].(string)

	rec, resp = env.do(t, "PUT", "/api/users/change-password", token, map[string]any{
		"currentPassword": "wrong", "newPassword": "Xyz789",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Current password is incorrect", resp.Message)

	rec, _ = env.do(t, "PUT", "/api/users/change-password", token, map[string]any{
		"currentPassword": "Abc123", "newPassword": "Xyz789",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, "POST", "/api/auth/login", "", map[string]any{
		"email": "erin@example.com", "password": "Xyz789",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLifecycle(t *testing.T) {
	env := newTestEnv(t)
	adminID, adminToken := env.seedAdmin(t, "admin@example.com", "Admin123")

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": "member@example.com", "password": "Abc123", "fullName": "Member One",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	memberToken := resp.Data.(map[string]any)["token"].(string)
	memberID := userField(t, resp, "id").(string)

	t.Run("member cannot reach admin routes", func(t *testing.T) {
		rec, resp := env.do(t, "GET", "/api/admin/users", memberToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Admin access required", resp.Message)
	})

	t.Run("admin lists users with pagination", func(t *testing.T) {
		rec, resp := env.do(t, "GET", "/api/admin/users?page=1&limit=10", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data := resp.Data.(map[string]any)
		users := data["users"].([]any)
		assert.Len(t, users, 2)
		pagination := data["pagination"].(map[string]any)
		assert.EqualValues(t, 2, pagination["totalUsers"])
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		rec, _ := env.do(t, "PUT", "/api/admin/users/"+adminID+"/deactivate", adminToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown target is 404", func(t *testing.T) {
		rec, _ := env.do(t, "PUT", "/api/admin/users/nope/deactivate", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("deactivation locks the account out", func(t *testing.T) {
		rec, resp := env.do(t, "PUT", "/api/admin/users/"+memberID+"/deactivate", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "inactive", userField(t, resp, "status"))

		// The still-valid token no longer authenticates.
		rec, resp = env.do(t, "GET", "/api/auth/me", memberToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Account is deactivated", resp.Message)

		// Neither do the correct credentials.
		rec, _ = env.do(t, "POST", "/api/auth/login", "", map[string]any{
			"email": "member@example.com", "password": "Abc123",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reactivation restores access", func(t *testing.T) {
		rec, _ := env.do(t, "PUT", "/api/admin/users/"+memberID+"/activate", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = env.do(t, "POST", "/api/auth/login", "", map[string]any{
			"email": "member@example.com", "password": "Abc123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = env.do(t, "GET", "/api/auth/me", memberToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, "POST", "/api/auth/signup", "", map[string]any{
		"email": "fred@example.com", "password": "Abc123", "fullName": "Fred Low",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := resp.Data.(map[string]any)["token"].(string)

	rec, resp = env.do(t, "POST", "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
