package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/ironwall/authd/internal/auth/domain"
	"github.com/ironwall/authd/pkg/idx"
)

// UploadAvatar stores a new avatar image and records it on the account.
// A previous avatar is deleted from the object store best-effort; a
// leaked orphan object is preferable to failing the upload.
func (s *Service) UploadAvatar(ctx context.Context, userID, contentType, ext string, body io.Reader) (domain.Avatar, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.Avatar{}, err
	}

	key := path.Join("avatars", userID, idx.New().String()+ext)
	url, err := s.blobs.Put(ctx, key, contentType, body)
	if err != nil {
		return domain.Avatar{}, err
	}

	avatar := domain.Avatar{URL: url, StorageID: key}
	if err := s.store.Users().UpdateAvatar(ctx, userID, avatar); err != nil {
		return domain.Avatar{}, fmt.Errorf("record avatar: %w", err)
	}

	if old := user.Avatar; old != nil && old.StorageID != "" {
		if err := s.blobs.Delete(ctx, old.StorageID); err != nil {
			s.log.WarnContext(ctx, "failed to delete replaced avatar",
				"user_id", userID, "key", old.StorageID, "error", err)
		}
	}

	return avatar, nil
}

// DeleteAvatar removes the account's avatar from both the object store
// and the database.
func (s *Service) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == nil {
		return ErrAvatarNotFound
	}

	if user.Avatar.StorageID != "" {
		if err := s.blobs.Delete(ctx, user.Avatar.StorageID); err != nil {
			return err
		}
	}

	if err := s.store.Users().ClearAvatar(ctx, userID); err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}

	s.log.InfoContext(ctx, "avatar deleted", "user_id", userID)
	return nil
}
