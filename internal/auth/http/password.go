package http

import (
	"fmt"
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type ChangePasswordHandler struct {
	Service *service.Service
}

// ServeHTTP rotates the account password after checking the current one.
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrUnauthorized.WriteError(w)
		return
	}

	var req authapi.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CurrentPassword == "" {
		authapi.NewValidationError("current_password is required").WriteError(w)
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		authapi.NewValidationError(
			fmt.Sprintf("new password must be at least %d characters", minPasswordLength),
		).WriteError(w)
		return
	}

	if err := h.Service.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		log.Warn("password change failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
