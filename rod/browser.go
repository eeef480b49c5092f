package rod

import (
	"context"

	"github.com/fwojciec/postvault"
	"github.com/go-rod/rod/lib/proto"
)

var _ postvault.Browser = (*Browser)(nil)

// Browser opens live pages on a managed Chrome instance.
type Browser struct {
	manager *BrowserManager
}

// NewBrowser launches Chrome with the given options.
// Close must be called when the Browser is no longer needed.
func NewBrowser(opts ...ManagerOption) (*Browser, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Browser{manager: manager}, nil
}

// Open navigates a new tab to url and waits for the load event.
// The tab stays bound to ctx until it is closed.
func (b *Browser) Open(ctx context.Context, url string) (postvault.Page, error) {
	return b.open(ctx, url)
}

func (b *Browser) open(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser := b.manager.Browser()
	if browser == nil {
		return nil, postvault.Errorf(postvault.EINVALID, "browser is closed")
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		_ = page.Close()
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, err
	}

	return &Page{page: page}, nil
}

// Close shuts down Chrome.
func (b *Browser) Close() error {
	return b.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}
