// Package trafilatura extracts article content with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/postvault"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements postvault.Extractor at compile time.
var _ postvault.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main body out of article
// pages. Reader comments are dropped.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and body HTML.
func (e *Extractor) Extract(rawHTML string) (*postvault.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postvault.Errorf(postvault.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil {
		return nil, err
	}

	res := &postvault.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}
