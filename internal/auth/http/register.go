package http

import (
	"fmt"
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type RegisterHandler struct {
	Service *service.Service
}

// ServeHTTP starts a two-phase registration. The account is only created
// once the emailed code is verified; until then the attempt is held in
// memory and repeat registrations for the same email replace it.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	switch {
	case req.Username == "":
		authapi.NewValidationError("username is required").WriteError(w)
		return
	case !validEmail(req.Email):
		authapi.NewValidationError("a valid email is required").WriteError(w)
		return
	case len(req.Password) < minPasswordLength:
		authapi.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		).WriteError(w)
		return
	}

	if err := h.Service.InitiateRegistration(ctx, req.Username, req.Email, req.Password); err != nil {
		log.Warn("registration initiate failed", "email", req.Email, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authapi.RegisterResponse{
		Email:   req.Email,
		Message: "verification code sent",
	})
}
