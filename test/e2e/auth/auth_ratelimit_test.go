package auth_test

import (
	"net/http"
	"testing"

	"github.com/ironwall/authd/pkg/authapi"
	"github.com/stretchr/testify/require"
)

// TestStrictRateLimit runs against production rate limits (no overrides)
// and checks that hammering the login endpoint trips the strict tier.
func TestStrictRateLimit(t *testing.T) {
	baseURL, _ := setupAuthContainer(t, map[string]string{
		// Undo the relaxed defaults from the shared helper.
		"RATELIMIT_STRICT_REQUESTS":   "5",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "5",
	})
	client := authapi.NewClient(baseURL)
	ctx := t.Context()

	var limited bool
	for i := 0; i < 10; i++ {
		_, err := client.Login(ctx, authapi.LoginRequest{
			Email: "ghost@example.com", Password: "whatever1",
		})
		require.Error(t, err)

		var apiErr *authapi.APIError
		require.ErrorAs(t, err, &apiErr)
		if apiErr.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}
	require.True(t, limited, "login endpoint should rate limit within 10 attempts")
}
