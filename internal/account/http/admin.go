package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/halcyonlabs/accountd/internal/account/domain"
	"github.com/halcyonlabs/accountd/internal/account/service"
	"github.com/halcyonlabs/accountd/pkg/slogx"
)

// AdminHandler serves the admin-only account management endpoints.
type AdminHandler struct {
	AdminService *service.AdminService
}

type paginationMeta struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalUsers int64 `json:"totalUsers"`
	PerPage    int   `json:"perPage"`
}

// HandleList returns a page of accounts, newest first. Unparseable page and
// limit parameters fall back to defaults rather than failing the request.
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	listing, err := h.AdminService.ListUsers(ctx, page, limit)
	if err != nil {
		slogx.FromContext(ctx).Error("user listing failed", "err", err)
		writeServerError(w)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"users": listing.Users,
		"pagination": paginationMeta{
			Page:       listing.Page,
			TotalPages: listing.TotalPages,
			TotalUsers: listing.TotalUsers,
			PerPage:    listing.PerPage,
		},
	})
}

// HandleActivate re-enables the target account.
func (h *AdminHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.StatusActive, "User activated successfully")
}

// HandleDeactivate blocks the target account from authenticating.
func (h *AdminHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.StatusInactive, "User deactivated successfully")
}

func (h *AdminHandler) setStatus(w http.ResponseWriter, r *http.Request, status domain.Status, message string) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	targetID := r.PathValue("id")

	user, err := h.AdminService.SetUserStatus(ctx, identity.ID, targetID, status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAction):
			writeError(w, http.StatusForbidden, "You cannot change your own account status")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			log.Error("status change failed", "target_id", targetID, "err", err)
			writeServerError(w)
		}
		return
	}

	writeSuccess(w, http.StatusOK, message, map[string]any{
		"user": user.Identity(),
	})
}
