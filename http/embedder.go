package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/postvault"
)

// Embedding API endpoints.
const (
	OpenAIEndpoint = "https://api.openai.com/v1/embeddings"
	VoyageEndpoint = "https://api.voyageai.com/v1/embeddings"
)

// DefaultEmbedTimeout is the default timeout for a single embedding request.
const DefaultEmbedTimeout = 30 * time.Second

var _ postvault.Embedder = (*Embedder)(nil)

// Embedder calls an OpenAI-compatible /v1/embeddings endpoint with bearer
// authentication. OpenAI and Voyage AI share the request and response shape.
type Embedder struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(url string) EmbedderOption {
	return func(e *Embedder) {
		e.endpoint = url
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) EmbedderOption {
	return func(e *Embedder) {
		e.client = c
	}
}

// NewOpenAIEmbedder creates an Embedder for the OpenAI API.
func NewOpenAIEmbedder(apiKey string, opts ...EmbedderOption) *Embedder {
	return newEmbedder(postvault.Providers[postvault.ProviderOpenAI].Name, OpenAIEndpoint, apiKey, opts)
}

// NewVoyageEmbedder creates an Embedder for the Voyage AI API.
func NewVoyageEmbedder(apiKey string, opts ...EmbedderOption) *Embedder {
	return newEmbedder(postvault.Providers[postvault.ProviderVoyage].Name, VoyageEndpoint, apiKey, opts)
}

func newEmbedder(name, endpoint, apiKey string, opts []EmbedderOption) *Embedder {
	e := &Embedder{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultEmbedTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail string `json:"detail"`
}

// APIError is returned when the provider answers with a non-2xx status.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

// Error returns the provider's message so it can be shown to the user as is.
func (e *APIError) Error() string {
	return e.Message
}

// Embed returns the embedding vector of text.
func (e *Embedder) Embed(ctx context.Context, text, model string) ([]float32, error) {
	if model == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "%s embedding model required", e.name)
	}
	if e.apiKey == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "Please enter an API key")
	}

	body, err := json.Marshal(embedRequest{Model: model, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(e.name, resp.StatusCode, data)
	}

	var out embedResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", e.name, err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%s returned no embedding", e.name)
	}
	return out.Data[0].Embedding, nil
}

func apiError(provider string, status int, body []byte) *APIError {
	msg := "Embedding API error"
	var out errorResponse
	if json.Unmarshal(body, &out) == nil {
		switch {
		case out.Error.Message != "":
			msg = out.Error.Message
		case out.Detail != "":
			msg = out.Detail
		}
	}
	return &APIError{Provider: provider, StatusCode: status, Message: msg}
}
