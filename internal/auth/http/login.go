package http

import (
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type LoginHandler struct {
	Service *service.Service
}

// ServeHTTP authenticates an account. Unknown email and wrong password
// return the same 401 body.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		authapi.NewValidationError("email and password are required").WriteError(w)
		return
	}

	session, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", "email", req.Email, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authapi.SessionResponse{
		Token: session.Token,
		User:  toAPIUser(session.User),
	})
}
