package http

import (
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type VerifyOTPHandler struct {
	Service *service.Service
}

// ServeHTTP completes a pending registration. An exact code match commits
// the account and returns a session; a wrong code leaves the attempt
// intact for a retry, an expired one discards it.
func (h *VerifyOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	switch {
	case !validEmail(req.Email):
		authapi.NewValidationError("a valid email is required").WriteError(w)
		return
	case req.OTP == "":
		authapi.NewValidationError("otp is required").WriteError(w)
		return
	}

	session, err := h.Service.VerifyAndCommit(ctx, req.Email, req.OTP)
	if err != nil {
		log.Warn("otp verification failed", "email", req.Email, "err", err)
		writeServiceError(w, err)
		return
	}

	// 201: verification is the moment the durable account gets created.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authapi.SessionResponse{
		Token: session.Token,
		User:  toAPIUser(session.User),
	})
}
