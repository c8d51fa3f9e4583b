// Package service implements the account lifecycle behind the HTTP
// layer: two-phase registration gated by emailed one-time codes, login,
// profile management, avatar storage and the assistant relay.
package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ironwall/authd/internal/auth/blob"
	"github.com/ironwall/authd/internal/auth/chat"
	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/mail"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/internal/auth/store/pending"
	"github.com/ironwall/authd/pkg/jwtx"
)

// Sentinel errors the HTTP layer maps onto API error codes.
var (
	// ErrConflict means the email or username already belongs to a
	// committed account.
	ErrConflict = errors.New("email or username already registered")

	// ErrRegistrationNotFound means no pending registration exists for
	// the email. Covers never-registered, already-verified, expired and
	// swept entries alike.
	ErrRegistrationNotFound = errors.New("no pending registration for email")

	// ErrOTPExpired means the code's validity window has passed. The
	// pending entry is discarded when this is returned.
	ErrOTPExpired = errors.New("verification code expired")

	// ErrOTPMismatch means the submitted code is wrong. The pending
	// entry survives so the user can retry.
	ErrOTPMismatch = errors.New("verification code mismatch")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so responses cannot be used to probe for accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordMismatch means the current password supplied on a
	// password change is wrong. Distinct from ErrInvalidCredentials
	// because the caller is already authenticated.
	ErrPasswordMismatch = errors.New("current password is incorrect")

	// ErrUserNotFound means the authenticated subject no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrAvatarNotFound means a delete was attempted with no avatar set.
	ErrAvatarNotFound = errors.New("no avatar to delete")
)

// Config carries the tunables of the registration flow.
type Config struct {
	// OTPTTL is how long an issued code stays valid.
	OTPTTL time.Duration

	// PendingMaxAge is how long an unverified registration is retained
	// before the sweep discards it. Must be >= OTPTTL.
	PendingMaxAge time.Duration

	// DispatchPolicy decides whether a failed OTP email fails the
	// operation or is logged and swallowed.
	DispatchPolicy mail.DispatchPolicy

	// SessionTTL is the lifetime of issued session tokens.
	SessionTTL time.Duration

	// Issuer is stamped into session token claims.
	Issuer string
}

func (c Config) withDefaults() Config {
	if c.OTPTTL <= 0 {
		c.OTPTTL = domain.DefaultOTPTTL
	}
	if c.PendingMaxAge <= 0 {
		c.PendingMaxAge = domain.DefaultPendingMaxAge
	}
	if c.PendingMaxAge < c.OTPTTL {
		c.PendingMaxAge = c.OTPTTL
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = jwtx.DefaultSessionTTL
	}
	if c.DispatchPolicy == "" {
		c.DispatchPolicy = mail.DispatchBestEffort
	}
	return c
}

// Service owns all account operations.
type Service struct {
	cfg     Config
	store   store.Store
	pending *pending.Store
	mailer  mail.Mailer
	blobs   blob.Storage
	relay   chat.Relay
	signer  jwtx.Signer
	log     *slog.Logger

	// now is swapped out in tests to drive expiry.
	now func() time.Time
}

// New wires a Service. Pass blob.Disabled{} or a nil-safe relay when the
// optional backends are not configured.
func New(
	cfg Config,
	st store.Store,
	pendingStore *pending.Store,
	mailer mail.Mailer,
	blobs blob.Storage,
	relay chat.Relay,
	signer jwtx.Signer,
	log *slog.Logger,
) *Service {
	return &Service{
		cfg:     cfg.withDefaults(),
		store:   st,
		pending: pendingStore,
		mailer:  mailer,
		blobs:   blobs,
		relay:   relay,
		signer:  signer,
		log:     log,
		now:     time.Now,
	}
}
