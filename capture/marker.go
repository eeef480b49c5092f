package capture

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/bloom"
	"golang.org/x/sync/errgroup"
)

// Marker defaults.
const (
	DefaultCardSelector     = "[data-chameleon-result-urn]"
	DefaultCardLinkSelector = `a[href*="/feed/update/"], a[href*="/posts/"], a[href*="activity"]`
	DefaultMarkDebounce     = 200 * time.Millisecond
)

// Mark is the capture status of one card on a saved-posts list.
type Mark struct {
	ID    string
	URL   string
	Saved bool
}

// MarkResult summarizes a marking pass.
type MarkResult struct {
	Marks   []Mark
	Saved   int
	Unsaved int
}

// Marker reports which cards of a saved-posts list have already been
// captured.
type Marker struct {
	Posts postvault.PostService

	Card     string
	CardLink string
	Debounce time.Duration
}

// NewMarker returns a Marker with the default selectors.
func NewMarker(posts postvault.PostService) *Marker {
	return &Marker{
		Posts:    posts,
		Card:     DefaultCardSelector,
		CardLink: DefaultCardLinkSelector,
		Debounce: DefaultMarkDebounce,
	}
}

// Mark checks every card in doc against stored posts.
// A card counts as saved when its post ID or link URL is stored.
func (m *Marker) Mark(ctx context.Context, doc postvault.Document) (*MarkResult, error) {
	idx, err := m.index(ctx)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(doc.URL())
	res := &MarkResult{Marks: []Mark{}}
	for _, card := range doc.QueryAll(m.Card) {
		mark := Mark{URL: cardLink(card, m.CardLink, base)}

		urn := card.Attr("data-chameleon-result-urn")
		mark.ID = urn[strings.LastIndex(urn, ":")+1:]
		if mark.ID == "" {
			mark.ID = postvault.PostIDFromURL(mark.URL)
		}

		mark.Saved = idx.Contains(mark.URL) || idx.Contains(mark.ID)
		if mark.Saved {
			res.Saved++
		} else {
			res.Unsaved++
		}
		res.Marks = append(res.Marks, mark)
	}
	return res, nil
}

// Watch marks doc, then marks it again after each burst of DOM
// mutations settles for Debounce. It blocks until ctx is done.
func (m *Marker) Watch(ctx context.Context, doc postvault.Document, report func(*MarkResult)) error {
	w, ok := doc.(postvault.Watcher)
	if !ok {
		return postvault.Errorf(postvault.EINVALID, "document does not report changes")
	}

	res, err := m.Mark(ctx, doc)
	if err != nil {
		return err
	}
	report(res)

	trigger := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.Watch(gctx, func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	})

	g.Go(func() error {
		timer := time.NewTimer(m.Debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-trigger:
				timer.Reset(m.Debounce)
			case <-timer.C:
				res, err := m.Mark(gctx, doc)
				if err != nil {
					return err
				}
				report(res)
			}
		}
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (m *Marker) index(ctx context.Context) (*bloom.Index, error) {
	posts, err := m.Posts.FindPosts(ctx, postvault.PostFilter{})
	if err != nil {
		return nil, err
	}
	idx := bloom.NewIndex(uint(2*len(posts)), bloom.DefaultFalsePositiveRate)
	for _, p := range posts {
		idx.Add(p.ID)
		idx.Add(p.URL)
	}
	return idx, nil
}

// cardLink returns the absolute URL of the first post link in card.
func cardLink(card postvault.Node, selector string, base *url.URL) string {
	link := card.Query(selector)
	if link == nil {
		return ""
	}
	href := link.Attr("href")
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
