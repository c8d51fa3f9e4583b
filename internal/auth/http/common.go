package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/ironwall/authd/internal/auth/blob"
	"github.com/ironwall/authd/internal/auth/chat"
	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
)

// minPasswordLength applies to registration and password changes.
const minPasswordLength = 6

// maxBodyBytes bounds JSON request bodies. Avatar uploads have their own
// limit.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst, rejecting unknown garbage and
// oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		authapi.NewValidationError("invalid request body").WriteError(w)
		return false
	}
	return true
}

// validEmail is a light syntactic check. Real proof of ownership is the
// OTP round trip.
func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// writeServiceError maps service sentinels onto API error bodies.
// Anything unmapped is logged by the caller and served as a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrConflict):
		authapi.ErrConflict.WriteError(w)
	case errors.Is(err, service.ErrRegistrationNotFound):
		authapi.ErrRegistrationNotFound.WriteError(w)
	case errors.Is(err, service.ErrOTPExpired):
		authapi.ErrOTPExpired.WriteError(w)
	case errors.Is(err, service.ErrOTPMismatch):
		authapi.ErrOTPMismatch.WriteError(w)
	case errors.Is(err, service.ErrPasswordMismatch):
		authapi.ErrPasswordMismatch.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authapi.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrAvatarNotFound):
		authapi.ErrAvatarNotFound.WriteError(w)
	case errors.Is(err, blob.ErrNotConfigured):
		(&authapi.APIError{
			StatusCode:  http.StatusServiceUnavailable,
			Code:        authapi.ErrorCodeUpstreamFailure,
			Description: "avatar storage is not configured",
		}).WriteError(w)
	case errors.Is(err, chat.ErrNotConfigured):
		(&authapi.APIError{
			StatusCode:  http.StatusServiceUnavailable,
			Code:        authapi.ErrorCodeUpstreamFailure,
			Description: "assistant is not configured",
		}).WriteError(w)
	case errors.Is(err, chat.ErrUpstream):
		authapi.ErrUpstreamFailure.WriteError(w)
	default:
		authapi.ErrServerError.WriteError(w)
	}
}

// toAPIUser builds the sanitized account view.
func toAPIUser(u domain.User) authapi.User {
	out := authapi.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
	if u.Avatar != nil {
		out.Avatar = &authapi.Avatar{
			URL:       u.Avatar.URL,
			StorageID: u.Avatar.StorageID,
		}
	}
	return out
}
