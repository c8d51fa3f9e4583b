package http

import (
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type ResendOTPHandler struct {
	Service *service.Service
}

// ServeHTTP issues a fresh code for an in-flight registration. The prior
// code stops working the moment the new one is stored.
func (h *ResendOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.ResendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	if !validEmail(req.Email) {
		authapi.NewValidationError("a valid email is required").WriteError(w)
		return
	}

	if err := h.Service.ResendOTP(ctx, req.Email); err != nil {
		log.Warn("otp resend failed", "email", req.Email, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authapi.RegisterResponse{
		Email:   req.Email,
		Message: "verification code sent",
	})
}
