package http

import (
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type ProfileHandler struct {
	Service *service.Service
}

// HandleGet returns the authenticated account's sanitized view.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrUnauthorized.WriteError(w)
		return
	}

	user, err := h.Service.GetProfile(ctx, userID)
	if err != nil {
		log.Warn("failed to load profile", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toAPIUser(user))
}

// HandlePut updates username and/or email. Omitted fields keep their
// current value.
func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrUnauthorized.WriteError(w)
		return
	}

	var req authapi.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username != nil && *req.Username == "" {
		authapi.NewValidationError("username must not be empty").WriteError(w)
		return
	}
	if req.Email != nil {
		normalized := normalizeEmail(*req.Email)
		if !validEmail(normalized) {
			authapi.NewValidationError("a valid email is required").WriteError(w)
			return
		}
		req.Email = &normalized
	}

	user, err := h.Service.UpdateProfile(ctx, userID, req.Username, req.Email)
	if err != nil {
		log.Warn("profile update failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toAPIUser(user))
}
