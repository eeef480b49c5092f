package capture

import (
	"context"
	"log/slog"

	"github.com/fwojciec/postvault"
)

// Options control a single capture.
type Options struct {
	IncludeComments bool

	// Snapshot fetches the shared article and stores an excerpt.
	Snapshot bool
}

// Result holds the outcome of a capture.
type Result struct {
	Post      *postvault.Post
	Duplicate bool
	PostCount int
	Expanded  int
}

// Capturer runs the capture pipeline: expand comments, extract the post,
// optionally snapshot the shared article and save.
type Capturer struct {
	Posts     postvault.PostService
	Extractor *Extractor
	Expander  *Expander
	Articles  *ArticleReader
	Logger    *slog.Logger
}

// Capture extracts the post rendered in doc and saves it.
// It returns EINVALID when doc is not a single-post page. A post that is
// already stored is reported through Result.Duplicate.
func (c *Capturer) Capture(ctx context.Context, doc postvault.Document, opts Options) (*Result, error) {
	if !postvault.IsPostURL(doc.URL()) {
		return nil, postvault.Errorf(postvault.EINVALID, "Click into a post first, then save")
	}

	var expanded int
	if opts.IncludeComments && c.Expander != nil {
		expanded = c.Expander.Expand(ctx, doc)
		c.logger().Info("expanded comments", "url", doc.URL(), "clicks", expanded)
	}

	extractor := c.Extractor
	if extractor == nil {
		extractor = NewExtractor()
	}
	post := extractor.Extract(doc, opts.IncludeComments)

	if opts.Snapshot && c.Articles != nil && post.SharedArticle != nil && post.SharedArticle.URL != "" {
		excerpt, err := c.Articles.Read(ctx, post.SharedArticle.URL)
		if err != nil {
			c.logger().Warn("article snapshot failed", "url", post.SharedArticle.URL, "err", err)
		} else {
			post.SharedArticle.Excerpt = excerpt
		}
	}

	res, err := c.Posts.SavePost(ctx, post)
	if err != nil {
		return nil, err
	}

	return &Result{
		Post:      post,
		Duplicate: res.Duplicate,
		PostCount: res.PostCount,
		Expanded:  expanded,
	}, nil
}

func (c *Capturer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
