package service

import (
	"context"

	"github.com/ironwall/authd/internal/auth/chat"
)

// Chat relays a message and its history to the assistant on behalf of
// an authenticated user.
func (s *Service) Chat(ctx context.Context, userID, message string, history []chat.Message) (string, error) {
	reply, err := s.relay.Send(ctx, message, history)
	if err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "chat message relayed", "user_id", userID, "history_len", len(history))
	return reply, nil
}
