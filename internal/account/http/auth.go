package http

import (
	"errors"
	"net/http"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/service"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

// AuthHandler serves signup, login and the token-introspection style
// endpoints for the calling account.
type AuthHandler struct {
	AuthService *service.AuthService
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	FullName string `json:"fullName" validate:"required,fullname"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authData struct {
	User  domain.Identity `json:"user"`
	Token string          `json:"token"`
}

// HandleSignup registers a new member account and issues its first token.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = domain.NormalizeEmail(req.Email)
	if fieldErrors := checkRequest(req); fieldErrors != nil {
		writeValidationFailed(w, fieldErrors)
		return
	}

	user, token, err := h.AuthService.Signup(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		log.Error("signup failed", "err", err)
		writeServerError(w)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", authData{
		User:  user.Identity(),
		Token: token,
	})
}

// HandleLogin authenticates an existing account. Unknown email and wrong
// password are indistinguishable in the response.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = domain.NormalizeEmail(req.Email)
	if fieldErrors := checkRequest(req); fieldErrors != nil {
		writeValidationFailed(w, fieldErrors)
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrAccountDisabled):
			writeError(w, http.StatusForbidden, "Account is deactivated")
		default:
			log.Error("login failed", "err", err)
			writeServerError(w)
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", authData{
		User:  user.Identity(),
		Token: token,
	})
}

// HandleMe returns the identity attached by the authentication middleware.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"user": identity})
}

// HandleLogout acknowledges a logout. Tokens are stateless, so the server
// has nothing to forget; the client discards its copy.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}
