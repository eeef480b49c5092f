package main_test

import (
	"bytes"
	"context"
	"testing"

	main "github.com/fwojciec/postvault/cmd/postvault"
	"github.com/fwojciec/postvault/goquery"
	"github.com/stretchr/testify/require"
)

const (
	postURL = "https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/"
	postID  = "7123456789012345678"

	postHTML = `<html><body>
<div class="feed-shared-update-v2__description">Shipping a local archive for saved posts #golang</div>
</body></html>`
)

// testPage serves a parsed HTML fixture as a browser page.
type testPage struct {
	*goquery.Document
	closed bool
}

func (p *testPage) Close() error {
	p.closed = true
	return nil
}

func newTestPage(t *testing.T, html, url string) *testPage {
	t.Helper()
	doc, err := goquery.NewDocument(html, url)
	require.NoError(t, err)
	return &testPage{Document: doc}
}

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}
