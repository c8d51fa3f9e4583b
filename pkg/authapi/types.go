// Package authapi holds the wire types for the authentication service: the
// request/response bodies served by internal/auth/http and a small client
// used by integration tests and other services.
package authapi

import "time"

// RegisterRequest starts a registration. The account is not created until
// the emailed one-time code is verified.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse acknowledges that a verification code was issued for the
// given email.
type RegisterResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// VerifyOTPRequest completes a registration with the emailed code.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResendOTPRequest asks for a fresh code for an in-flight registration.
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned on login and on successful verification: a
// bearer session token plus the sanitized account view.
type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User is the sanitized account view. It never carries the password hash.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Avatar     *Avatar   `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Avatar is a stored profile image reference.
type Avatar struct {
	URL       string `json:"url"`
	StorageID string `json:"storage_id"`
}

// UpdateProfileRequest changes username and/or email; omitted fields keep
// their current value.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AvatarResponse is returned after an avatar upload.
type AvatarResponse struct {
	Avatar Avatar `json:"avatar"`
}

// ChatMessage is one prior turn of a chat conversation. Role is "user" or
// "assistant"; "model" is accepted as an alias for "assistant".
type ChatMessage struct {
	Role  string `json:"role"`
	Parts string `json:"parts"`
}

// ChatRequest relays a message, with optional history, to the AI provider.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatResponse carries the provider's reply text.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HealthResponse is served by /livez and /readyz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime,omitempty"`
}
