//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/postvault/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gemini.NewClient(ctx, apiKey)
	require.NoError(t, err)

	vec, err := gemini.NewEmbedder(client).Embed(ctx, "Ada Lovelace wrote the first program.", "gemini-embedding-001")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}
