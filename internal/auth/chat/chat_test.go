package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSendRelaysConversation(t *testing.T) {
	t.Parallel()

	var captured completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello back"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, testLogger())

	reply, err := c.Send(context.Background(), "hi there", []Message{
		{Role: "user", Parts: "earlier question"},
		{Role: "model", Parts: "earlier answer"},
	})
	require.NoError(t, err)
	require.Equal(t, "hello back", reply)

	require.Equal(t, defaultModel, captured.Model)
	require.InDelta(t, completionTemperature, captured.Temperature, 0.001)
	require.Equal(t, completionMaxTokens, captured.MaxTokens)
	require.False(t, captured.Stream)

	require.Len(t, captured.Messages, 4)
	require.Equal(t, "system", captured.Messages[0].Role)
	require.Equal(t, "user", captured.Messages[1].Role)

	// Legacy "model" role is normalised for the upstream API.
	require.Equal(t, "assistant", captured.Messages[2].Role)
	require.Equal(t, "earlier answer", captured.Messages[2].Content)

	require.Equal(t, apiMessage{Role: "user", Content: "hi there"}, captured.Messages[3])
}

func TestSendWithoutAPIKey(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, testLogger())
	_, err := c.Send(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, testLogger())
	_, err := c.Send(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrUpstream)
}

func TestSendEmptyChoicesFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, testLogger())
	reply, err := c.Send(context.Background(), "hi", nil)
	require.NoError(t, err)
	require.Equal(t, "I apologize, but I could not generate a response.", reply)
}
