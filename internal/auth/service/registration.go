package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/mail"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/pkg/cryptox"
	"github.com/ironwall/authd/pkg/idx"
	"github.com/ironwall/authd/pkg/jwtx"
)

// Session is the result of a successful verification or login.
type Session struct {
	Token string
	User  domain.User
}

// InitiateRegistration starts a two-phase signup. The account does not
// exist yet: the request is parked in the pending store and a one-time
// code is emailed to the address. A repeat initiate for the same email
// replaces the earlier attempt wholesale.
func (s *Service) InitiateRegistration(ctx context.Context, username, email, password string) error {
	// Expired entries are evicted on signup traffic rather than by a
	// background timer.
	if swept := s.pending.SweepExpired(s.now(), s.cfg.PendingMaxAge); swept > 0 {
		s.log.InfoContext(ctx, "swept stale pending registrations", "count", swept)
	}

	var opErr error
	s.pending.Do(email, func() {
		taken, err := s.store.Users().ExistsByEmailOrUsername(ctx, email, username)
		if err != nil {
			opErr = fmt.Errorf("check existing account: %w", err)
			return
		}
		if taken {
			opErr = ErrConflict
			return
		}

		// Hash before parking so the plaintext password never sits in
		// process state.
		hash, err := cryptox.HashPassword(password)
		if err != nil {
			opErr = fmt.Errorf("hash password: %w", err)
			return
		}

		otp, err := cryptox.GenerateOTP()
		if err != nil {
			opErr = fmt.Errorf("generate otp: %w", err)
			return
		}

		now := s.now()
		s.pending.Put(domain.PendingRegistration{
			Email:        email,
			Username:     username,
			PasswordHash: hash,
			OTPCode:      otp,
			OTPExpiresAt: now.Add(s.cfg.OTPTTL),
			CreatedAt:    now,
		})

		opErr = s.dispatchOTP(ctx, email, username, otp)
	})
	return opErr
}

// ResendOTP replaces the code on an in-flight registration and emails
// the new one. The prior code stops working immediately.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	var opErr error
	s.pending.Do(email, func() {
		p, ok := s.pending.Get(email)
		if !ok {
			opErr = ErrRegistrationNotFound
			return
		}
		if p.Stale(s.now(), s.cfg.PendingMaxAge) {
			s.pending.Delete(email)
			opErr = ErrRegistrationNotFound
			return
		}

		otp, err := cryptox.GenerateOTP()
		if err != nil {
			opErr = fmt.Errorf("generate otp: %w", err)
			return
		}

		p.OTPCode = otp
		p.OTPExpiresAt = s.now().Add(s.cfg.OTPTTL)
		s.pending.Put(p)

		opErr = s.dispatchOTP(ctx, email, p.Username, otp)
	})
	return opErr
}

// VerifyAndCommit checks the submitted code against the pending
// registration and, on an exact match, creates the account and issues a
// session. A wrong code leaves the entry in place for another attempt;
// an expired code discards it.
func (s *Service) VerifyAndCommit(ctx context.Context, email, code string) (Session, error) {
	var (
		session Session
		opErr   error
	)
	s.pending.Do(email, func() {
		p, ok := s.pending.Get(email)
		if !ok {
			opErr = ErrRegistrationNotFound
			return
		}

		now := s.now()
		if p.Stale(now, s.cfg.PendingMaxAge) {
			s.pending.Delete(email)
			opErr = ErrRegistrationNotFound
			return
		}
		if p.OTPExpired(now) {
			s.pending.Delete(email)
			opErr = ErrOTPExpired
			return
		}
		if p.OTPCode != code {
			opErr = ErrOTPMismatch
			return
		}

		user := domain.User{
			ID:           idx.New().String(),
			Username:     p.Username,
			Email:        p.Email,
			PasswordHash: p.PasswordHash,
			Role:         domain.RoleUser,
			IsVerified:   true,
			CreatedAt:    now.UTC(),
			UpdatedAt:    now.UTC(),
		}
		if err := s.store.Users().CreateUser(ctx, user); err != nil {
			// A committed account appeared between initiate and verify.
			// The pending entry is useless now either way.
			s.pending.Delete(email)
			opErr = mapStoreConflict(err)
			return
		}

		s.pending.Delete(email)

		session, opErr = s.issueSession(user)
		if opErr == nil {
			s.log.InfoContext(ctx, "registration verified", "user_id", user.ID, "email", user.Email)
		}
	})
	return session, opErr
}

// dispatchOTP sends the code by mail. Under the best-effort policy a
// failed send is logged together with the code so an operator can relay
// it out of band, and the operation still succeeds.
func (s *Service) dispatchOTP(ctx context.Context, email, username, otp string) error {
	err := s.mailer.SendOTP(ctx, email, username, otp)
	if err == nil {
		return nil
	}

	if s.cfg.DispatchPolicy == mail.DispatchStrict {
		return fmt.Errorf("dispatch otp email: %w", err)
	}

	s.log.WarnContext(ctx, "otp email dispatch failed, continuing",
		"to", email,
		"otp", otp,
		"error", err,
	)
	return nil
}

func (s *Service) issueSession(user domain.User) (Session, error) {
	claims := jwtx.NewSessionClaims(user.ID, s.cfg.Issuer, s.cfg.SessionTTL, s.now())
	token, err := s.signer.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

// mapStoreConflict translates the store uniqueness sentinel into the
// service-level conflict error.
func mapStoreConflict(err error) error {
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrConflict
	}
	return fmt.Errorf("create user: %w", err)
}
