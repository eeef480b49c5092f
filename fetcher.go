package postvault

import "context"

// Fetcher retrieves raw HTML from URLs.
// It is used to snapshot articles linked from captured posts.
type Fetcher interface {
	// Fetch retrieves the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any held resources.
	Close() error
}
