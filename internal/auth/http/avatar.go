package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// avatarExtensions maps accepted sniffed content types to object keys'
// file extensions. Anything else is rejected.
var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type AvatarHandler struct {
	Service *service.Service
}

// HandleUpload stores a new avatar image from a multipart form field
// named "avatar" and replaces any previous one.
func (h *AvatarHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrUnauthorized.WriteError(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+4096)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		authapi.NewValidationError("avatar must be a multipart upload of at most 5MB").WriteError(w)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		authapi.NewValidationError("form field 'avatar' is required").WriteError(w)
		return
	}
	defer file.Close()

	// Sniff the type from content rather than trusting the client header.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		authapi.ErrServerError.WriteError(w)
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := avatarExtensions[contentType]
	if !ok {
		authapi.NewValidationError("avatar must be a png, jpeg, gif or webp image").WriteError(w)
		return
	}

	body := io.MultiReader(bytes.NewReader(head), file)
	avatar, err := h.Service.UploadAvatar(ctx, userID, contentType, ext, body)
	if err != nil {
		log.Warn("avatar upload failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authapi.AvatarResponse{
		Avatar: authapi.Avatar{URL: avatar.URL, StorageID: avatar.StorageID},
	})
}

// HandleDelete removes the account's avatar.
func (h *AvatarHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrUnauthorized.WriteError(w)
		return
	}

	if err := h.Service.DeleteAvatar(ctx, userID); err != nil {
		log.Warn("avatar delete failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "avatar deleted"})
}
