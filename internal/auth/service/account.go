package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/pkg/cryptox"
)

// Login checks credentials against a committed account and issues a
// session. Unknown email and wrong password produce the same error so
// the endpoint cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("verify password: %w", err)
	}

	session, err := s.issueSession(user)
	if err != nil {
		return Session{}, err
	}

	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return session, nil
}

// GetProfile returns the account for an authenticated subject.
func (s *Service) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes username and/or email. Nil fields keep their
// current value. The new identifiers must not belong to another account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, username, email *string) (domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	newUsername := user.Username
	if username != nil {
		newUsername = *username
	}
	newEmail := user.Email
	if email != nil {
		newEmail = *email
	}

	if newUsername == user.Username && newEmail == user.Email {
		return user, nil
	}

	if err := s.store.Users().UpdateProfile(ctx, userID, newUsername, newEmail); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrConflict
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated", "user_id", userID)
	return s.GetProfile(ctx, userID)
}

// ChangePassword swaps the stored hash after checking the current
// password.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("verify password: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.log.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}
