package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes surfaced to clients. Domain failures get a distinct code;
// everything unexpected collapses to server_error.
const (
	ErrorCodeConflict           = "conflict"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeExpired            = "otp_expired"
	ErrorCodeMismatch           = "otp_mismatch"
	ErrorCodePasswordMismatch   = "password_mismatch"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeUpstreamFailure    = "upstream_failure"
	ErrorCodeServerError        = "server_error"
)

// APIError is the structured error body every failing endpoint returns:
// {"error": code, "error_description": human text}. It implements error so
// the client SDK can hand it straight back to callers.
type APIError struct {
	// StatusCode is the HTTP status for this error, not serialized.
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	// ErrConflict is returned when the email or username is already taken.
	ErrConflict = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeConflict,
		Description: "user with this email or username already exists",
	}

	// ErrRegistrationNotFound is returned when no registration is pending
	// for the given email.
	ErrRegistrationNotFound = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeNotFound,
		Description: "no pending registration for this email",
	}

	// ErrOTPExpired is returned when the code's deadline has passed. The
	// registration must be restarted from the beginning.
	ErrOTPExpired = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeExpired,
		Description: "verification code has expired, please register again",
	}

	// ErrOTPMismatch is returned for a wrong code. The registration stays
	// pending, so the caller may retry until expiry.
	ErrOTPMismatch = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMismatch,
		Description: "incorrect verification code",
	}

	// ErrPasswordMismatch is returned when the current password given on
	// a password change is wrong. A 400, not a 401: the session itself is
	// still valid.
	ErrPasswordMismatch = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodePasswordMismatch,
		Description: "current password is incorrect",
	}

	// ErrInvalidCredentials is returned on login failure. Deliberately the
	// same body whether the email is unknown or the password is wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	// ErrUnauthorized is returned for a missing, invalid, or expired
	// session token.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "the session token is missing, invalid, or expired",
	}

	// ErrUserNotFound is returned when the authenticated account no longer
	// exists.
	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "user not found",
	}

	// ErrAvatarNotFound is returned when deleting an avatar that was never
	// uploaded.
	ErrAvatarNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "no avatar to delete",
	}

	// ErrUpstreamFailure is returned when a collaborator (blob storage, AI
	// provider) is unreachable or misbehaving.
	ErrUpstreamFailure = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeUpstreamFailure,
		Description: "upstream service failure",
	}

	// ErrServerError is the catch-all for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewValidationError builds a 400 validation_error with a specific message.
func NewValidationError(description string) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: description,
	}
}
