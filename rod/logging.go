package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postvault"
)

// Ensure LoggingBrowser implements postvault.Browser.
var _ postvault.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with logging of page loads.
type LoggingBrowser struct {
	next   postvault.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next postvault.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Open logs the URL being opened and delegates to the wrapped browser.
func (b *LoggingBrowser) Open(ctx context.Context, url string) (page postvault.Page, err error) {
	defer func(begin time.Time) {
		b.logger.Info("open",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Open(ctx, url)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
