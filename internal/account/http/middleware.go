package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/service"
	"github.com/halcyonlabs/accountd/pkg/httpx"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

type identityKey struct{}

// ContextWithIdentity attaches the authenticated identity to ctx.
func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity the authentication middleware
// attached, or false when the request never passed through it.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireAuth verifies the bearer token and loads the account it names. The
// three failure modes before the status check (missing header, bad token,
// unknown subject) all answer with the same 401 so responses never reveal
// whether an account exists. A valid token for a deactivated account is a
// distinct 403: the credential is fine, the account is not.
func requireAuth(tokens *service.TokenService, users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				log.Debug("token rejected", "err", err)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				log.Error("failed to load authenticated user", "user_id", userID, "err", err)
				writeServerError(w)
				return
			}

			identity := user.Identity()
			if identity.Disabled() {
				writeError(w, http.StatusForbidden, "Account is deactivated")
				return
			}

			ctx = ContextWithIdentity(ctx, identity)
			ctx = httpx.ContextWithUserID(ctx, identity.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAdmin gates a route on the admin role. It assumes requireAuth ran
// earlier in the chain.
func requireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !identity.IsAdmin() {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
