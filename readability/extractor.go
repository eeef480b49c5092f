// Package readability extracts article content with go-readability.
// It serves as the fallback when trafilatura finds no body.
package readability

import (
	"strings"

	"github.com/fwojciec/postvault"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements postvault.Extractor at compile time.
var _ postvault.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and readable content HTML.
func (e *Extractor) Extract(rawHTML string) (*postvault.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &postvault.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
