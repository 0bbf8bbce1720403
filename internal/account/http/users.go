package http

import (
	"errors"
	"net/http"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/service"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

// ProfileHandler serves profile self-management for the authenticated
// account. Role and status never pass through here: the request DTOs only
// name the fields a user may change about themselves.
type ProfileHandler struct {
	UserService *service.UserService
}

type updateProfileRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"fullName" validate:"omitempty,fullname"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// HandleGet returns the caller's own profile.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"user": identity})
}

// HandleUpdate applies an allow-listed update of email and full name. Fields
// left empty keep their current values; anything else in the body is ignored.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email != "" {
		req.Email = domain.NormalizeEmail(req.Email)
	}
	if fieldErrors := checkRequest(req); fieldErrors != nil {
		writeValidationFailed(w, fieldErrors)
		return
	}

	user, err := h.UserService.UpdateProfile(ctx, identity.ID, req.Email, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email is already in use")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		default:
			log.Error("profile update failed", "user_id", identity.ID, "err", err)
			writeServerError(w)
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", map[string]any{
		"user": user.Identity(),
	})
}

// HandleChangePassword swaps the caller's password after re-verifying the
// current one.
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErrors := checkRequest(req); fieldErrors != nil {
		writeValidationFailed(w, fieldErrors)
		return
	}

	if err := h.UserService.ChangePassword(ctx, identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		default:
			log.Error("password change failed", "user_id", identity.ID, "err", err)
			writeServerError(w)
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Password changed successfully", nil)
}
