package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser(username, email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, byID.Username)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, domain.RoleUser, byID.Role)
	require.True(t, byID.IsVerified)
	require.Nil(t, byID.Avatar)

	byEmail, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserEnforcesUniqueness(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, testUser("alice", "alice@example.com")))

	err := s.Users().CreateUser(ctx, testUser("alice", "other@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = s.Users().CreateUser(ctx, testUser("other", "alice@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestExistsByEmailOrUsername(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, testUser("alice", "alice@example.com")))

	for _, tc := range []struct {
		email, username string
		want            bool
	}{
		{"alice@example.com", "nobody", true},
		{"nobody@example.com", "alice", true},
		{"alice@example.com", "alice", true},
		{"nobody@example.com", "nobody", false},
	} {
		got, err := s.Users().ExistsByEmailOrUsername(ctx, tc.email, tc.username)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "email=%s username=%s", tc.email, tc.username)
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Users().CreateUser(ctx, testUser("bob", "bob@example.com")))

	require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "alice2", "alice2@example.com"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Username)
	require.Equal(t, "alice2@example.com", got.Email)

	// Colliding with another account's identifiers must fail.
	err = s.Users().UpdateProfile(ctx, u.ID, "bob", "alice2@example.com")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = s.Users().UpdateProfile(ctx, "missing-id", "x", "x@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePasswordHash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func TestAvatarRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	avatar := domain.Avatar{URL: "https://cdn.example/a.png", StorageID: "avatars/a"}
	require.NoError(t, s.Users().UpdateAvatar(ctx, u.ID, avatar))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	require.Equal(t, avatar, *got.Avatar)

	require.NoError(t, s.Users().ClearAvatar(ctx, u.ID))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.Avatar)
}
