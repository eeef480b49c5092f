package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var (
	_ postvault.Embedder   = (*Embedder)(nil)
	_ postvault.VectorSink = (*VectorSink)(nil)
)

// Embedder is a mock implementation of postvault.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text, model string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text, model string) ([]float32, error) {
	return e.EmbedFn(ctx, text, model)
}

// VectorSink is a mock implementation of postvault.VectorSink.
type VectorSink struct {
	UpsertEmbeddingsFn func(ctx context.Context, entries []postvault.EmbeddingEntry) error
}

func (s *VectorSink) UpsertEmbeddings(ctx context.Context, entries []postvault.EmbeddingEntry) error {
	return s.UpsertEmbeddingsFn(ctx, entries)
}
