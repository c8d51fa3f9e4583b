package http

import (
	"net/http"

	"github.com/ironwall/authd/internal/auth/chat"
	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/slogx"
)

type ChatHandler struct {
	Service *service.Service
}

// ServeHTTP relays a message and its history to the platform assistant.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrUnauthorized.WriteError(w)
		return
	}

	var req authapi.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		authapi.NewValidationError("message is required").WriteError(w)
		return
	}

	history := make([]chat.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, chat.Message{Role: m.Role, Parts: m.Parts})
	}

	reply, err := h.Service.Chat(ctx, userID, req.Message, history)
	if err != nil {
		log.Warn("chat relay failed", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authapi.ChatResponse{Reply: reply})
}
