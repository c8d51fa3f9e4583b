package store

import (
	"context"
	"errors"

	"github.com/ironwall/authd/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the durable data access interface. Concrete drivers (sqlite)
// implement this; it exposes sub-repositories to keep concerns tidy and
// swappable in tests.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and conflict checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ExistsByEmailOrUsername reports whether any account holds either
	// identifier. Both are globally unique.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email or username is taken; the
	// unique indexes are the last line of defense against racing commits.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile sets username and email and bumps updated_at. Returns
	// ErrAlreadyExists when either new value collides with another account.
	UpdateProfile(ctx context.Context, userID, username, email string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateAvatar sets the avatar reference.
	UpdateAvatar(ctx context.Context, userID string, avatar domain.Avatar) error

	// ClearAvatar removes the avatar reference.
	ClearAvatar(ctx context.Context, userID string) error
}
