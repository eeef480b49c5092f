package rod

import (
	"context"

	"github.com/fwojciec/postvault"
)

// Ensure Fetcher implements postvault.Fetcher at compile time.
var _ postvault.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML for articles that need JavaScript to show
// their content. It shares the Browser used for capture.
type Fetcher struct {
	browser *Browser
}

// NewFetcher creates a Fetcher on top of browser. Closing the Fetcher does
// not close the browser.
func NewFetcher(browser *Browser) *Fetcher {
	return &Fetcher{browser: browser}
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := f.browser.open(ctx, url)
	if err != nil {
		return "", err
	}
	defer page.Close()

	return page.page.HTML()
}

// Close is a no-op; the browser outlives its fetchers.
func (f *Fetcher) Close() error {
	return nil
}
