package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/pkg/cryptox"
	"github.com/ironwall/authd/pkg/idx"
)

// demoUser is a demo account created at startup when SEED_USERS is set.
// Only meant for development and test environments.
type demoUser struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

var demoUsers = []demoUser{
	{Username: "zubair_khan", Email: "zubair@ironwall.com", Password: "admin123", Role: domain.RoleAdmin},
	{Username: "shahab", Email: "shahab@ironwall.com", Password: "user123", Role: domain.RoleUser},
	{Username: "alex_researcher", Email: "alex@ironwall.com", Password: "user123", Role: domain.RoleResearcher},
	{Username: "sara_analyst", Email: "sara@ironwall.com", Password: "user123", Role: domain.RoleUser},
}

// seedUsers creates the demo accounts that don't already exist. Existing
// accounts are left untouched.
func (app *Application) seedUsers(ctx context.Context) error {
	for _, s := range demoUsers {
		_, err := app.db.Users().GetUserByEmail(ctx, s.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("check seed user %s: %w", s.Username, err)
		}

		hash, err := cryptox.HashPassword(s.Password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		now := time.Now().UTC()
		err = app.db.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     s.Username,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         s.Role,
			IsVerified:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("create seed user %s: %w", s.Username, err)
		}

		app.logger.Info("created seed user", "username", s.Username, "role", string(s.Role))
	}
	return nil
}
