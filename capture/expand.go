package capture

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postvault"
)

// Expansion defaults.
const (
	DefaultMaxRounds     = 20
	DefaultLoadMoreDelay = 800 * time.Millisecond
	DefaultRepliesDelay  = 500 * time.Millisecond
	DefaultRoundDelay    = 300 * time.Millisecond
)

// Default expansion control selectors.
const (
	DefaultLoadMoreSelector = `button[aria-label*="Load more comments"], ` +
		`button[aria-label*="View more comments"], ` +
		`button[aria-label*="more comments"], ` +
		`button[aria-label*="previous replies"], ` +
		`button[aria-label*="more replies"], ` +
		`.comments-comments-list__load-more-comments-button`
	DefaultRepliesSelector = `button[aria-label*="replies"], ` +
		`button[aria-label*="Show"][aria-label*="repl"]`
)

// Expander clicks "load more" and "show replies" controls until the
// comment thread is fully rendered or MaxRounds is reached.
type Expander struct {
	Logger *slog.Logger

	MaxRounds     int
	LoadMore      string
	Replies       string
	LoadMoreDelay time.Duration
	RepliesDelay  time.Duration
	RoundDelay    time.Duration
}

// NewExpander returns an Expander with the default selectors and delays.
func NewExpander(logger *slog.Logger) *Expander {
	return &Expander{
		Logger:        logger,
		MaxRounds:     DefaultMaxRounds,
		LoadMore:      DefaultLoadMoreSelector,
		Replies:       DefaultRepliesSelector,
		LoadMoreDelay: DefaultLoadMoreDelay,
		RepliesDelay:  DefaultRepliesDelay,
		RoundDelay:    DefaultRoundDelay,
	}
}

// Expand returns the number of successful clicks.
// A round stops the loop when no load-more control is present. The
// context is checked between clicks; cancellation ends expansion early.
func (e *Expander) Expand(ctx context.Context, doc postvault.Document) int {
	expanded := 0
	for round := 0; round < e.MaxRounds; round++ {
		loadMore := doc.QueryAll(e.LoadMore)
		if len(loadMore) == 0 {
			break
		}

		for _, btn := range loadMore {
			if !btn.Visible() {
				continue
			}
			if e.click(btn) {
				expanded++
			}
			if !sleep(ctx, e.LoadMoreDelay) {
				return expanded
			}
		}

		for _, btn := range doc.QueryAll(e.Replies) {
			if !btn.Visible() || !btn.Enabled() {
				continue
			}
			if e.click(btn) {
				expanded++
			}
			if !sleep(ctx, e.RepliesDelay) {
				return expanded
			}
		}

		if !sleep(ctx, e.RoundDelay) {
			return expanded
		}
	}
	return expanded
}

func (e *Expander) click(btn postvault.Node) bool {
	if err := btn.Click(); err != nil {
		if e.Logger != nil {
			e.Logger.Debug("expand click", "label", btn.Attr("aria-label"), "err", err)
		}
		return false
	}
	return true
}

// sleep waits for d and reports whether ctx is still live.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
