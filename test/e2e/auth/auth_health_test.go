package auth_test

import (
	"testing"

	"github.com/ironwall/authd/pkg/authapi"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, _ := setupAuthContainer(t, nil)
	client := authapi.NewClient(baseURL)
	ctx := t.Context()

	require.NoError(t, client.Livez(ctx))
	require.NoError(t, client.Readyz(ctx))
}
