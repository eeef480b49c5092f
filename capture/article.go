package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/postvault"
)

// DefaultMaxExcerpt is the longest excerpt kept from a shared article.
const DefaultMaxExcerpt = 1000

// ArticleReader snapshots articles shared in posts. Extractors are tried
// in order until one yields content.
type ArticleReader struct {
	Fetcher    postvault.Fetcher
	Extractors []postvault.Extractor
	Converter  postvault.Converter
	MaxExcerpt int
}

// Read fetches url and returns the start of its main content as Markdown.
func (r *ArticleReader) Read(ctx context.Context, url string) (string, error) {
	html, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}

	var lastErr error
	for _, ex := range r.Extractors {
		res, err := ex.Extract(html)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(res.ContentHTML) == "" {
			continue
		}

		markdown, err := r.Converter.Convert(res.ContentHTML)
		if err != nil {
			return "", fmt.Errorf("convert article: %w", err)
		}
		return excerpt(markdown, r.maxExcerpt()), nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("extract article: %w", lastErr)
	}
	return "", postvault.Errorf(postvault.ENOTFOUND, "no article content at %s", url)
}

func (r *ArticleReader) maxExcerpt() int {
	if r.MaxExcerpt <= 0 {
		return DefaultMaxExcerpt
	}
	return r.MaxExcerpt
}

func excerpt(markdown string, n int) string {
	markdown = strings.TrimSpace(markdown)
	runes := []rune(markdown)
	if len(runes) <= n {
		return markdown
	}
	return strings.TrimSpace(string(runes[:n]))
}
