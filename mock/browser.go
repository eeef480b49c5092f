package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var (
	_ postvault.Browser = (*Browser)(nil)
	_ postvault.Page    = (*Page)(nil)
)

// Browser is a mock implementation of postvault.Browser.
type Browser struct {
	OpenFn  func(ctx context.Context, url string) (postvault.Page, error)
	CloseFn func() error
}

func (b *Browser) Open(ctx context.Context, url string) (postvault.Page, error) {
	return b.OpenFn(ctx, url)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Page is a mock implementation of postvault.Page.
type Page struct {
	Document
	CloseFn func() error
}

func (p *Page) Close() error {
	return p.CloseFn()
}
