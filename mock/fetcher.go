package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var (
	_ postvault.Fetcher   = (*Fetcher)(nil)
	_ postvault.Extractor = (*Extractor)(nil)
	_ postvault.Converter = (*Converter)(nil)
)

// Fetcher is a mock implementation of postvault.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// Extractor is a mock implementation of postvault.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*postvault.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*postvault.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of postvault.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
