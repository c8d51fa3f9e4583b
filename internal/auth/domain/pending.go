package domain

import "time"

// Default lifetimes for an in-flight registration. The OTP deadline is what
// the user races against; the max age is the backstop after which the sweep
// evicts the entry entirely.
const (
	DefaultOTPTTL        = 10 * time.Minute
	DefaultPendingMaxAge = 15 * time.Minute
)

// PendingRegistration is an unconfirmed signup awaiting OTP verification.
// It lives only in the transient pending store and never touches the
// durable user store until committed. The password is argon2-hashed before
// it gets here, so no plaintext sits in memory for the life of the entry.
type PendingRegistration struct {
	Email        string // unique key, case-sensitive as provided
	Username     string
	PasswordHash string
	OTPCode      string // 6-digit numeric string
	OTPExpiresAt time.Time
	CreatedAt    time.Time
}

// OTPExpired reports whether the code deadline has passed at the given time.
func (p PendingRegistration) OTPExpired(at time.Time) bool {
	return at.After(p.OTPExpiresAt)
}

// Stale reports whether the entry is older than maxAge and should be swept.
func (p PendingRegistration) Stale(at time.Time, maxAge time.Duration) bool {
	return at.Sub(p.CreatedAt) > maxAge
}
