// Package gemini provides Google Gemini backed services: an Embedder on the
// embedContent API and a local TokenCounter.
package gemini

import (
	"context"

	"github.com/fwojciec/postvault"
	"google.golang.org/genai"
)

// Ensure Embedder implements postvault.Embedder at compile time.
var _ postvault.Embedder = (*Embedder)(nil)

// Embedder implements postvault.Embedder using the Gemini API.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Embed returns the embedding of text produced by model.
func (e *Embedder) Embed(ctx context.Context, text, model string) ([]float32, error) {
	if model == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "Gemini embedding model required")
	}
	if text == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "text to embed required")
	}
	if e.client == nil {
		return nil, postvault.Errorf(postvault.EINVALID, "Please enter an API key")
	}

	result, err := e.client.Models.EmbedContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
		}},
		nil,
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, postvault.Errorf(postvault.EINTERNAL, "gemini returned no embedding")
	}

	return result.Embeddings[0].Values, nil
}
