package rod_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/mock"
	"github.com/fwojciec/postvault/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBrowser_Open(t *testing.T) {
	t.Parallel()

	t.Run("logs url and returns the page unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		page := &mock.Page{}
		inner := &mock.Browser{
			OpenFn: func(ctx context.Context, url string) (postvault.Page, error) {
				return page, nil
			},
		}

		browser := rod.NewLoggingBrowser(inner, logger)
		got, err := browser.Open(context.Background(), "https://www.linkedin.com/feed/update/urn:li:activity:1/")

		require.NoError(t, err)
		assert.Same(t, page, got)
		output := buf.String()
		assert.Contains(t, output, "open")
		assert.Contains(t, output, "url=https://www.linkedin.com/feed/update/urn:li:activity:1/")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Browser{
			OpenFn: func(ctx context.Context, url string) (postvault.Page, error) {
				return nil, errors.New("navigation failed")
			},
		}

		browser := rod.NewLoggingBrowser(inner, logger)
		_, err := browser.Open(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"navigation failed\"")
	})

	t.Run("close delegates", func(t *testing.T) {
		t.Parallel()

		closed := false
		inner := &mock.Browser{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		browser := rod.NewLoggingBrowser(inner, slog.New(slog.DiscardHandler))
		require.NoError(t, browser.Close())
		assert.True(t, closed)
	})
}
