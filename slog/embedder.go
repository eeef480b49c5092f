package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postvault"
)

var _ postvault.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   postvault.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next postvault.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed logs the model, input size and vector dimensions.
func (e *LoggingEmbedder) Embed(ctx context.Context, text, model string) (vec []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed",
			"model", model,
			"chars", len(text),
			"dims", len(vec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, text, model)
}
