package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/mock"
	pvslog "github.com/fwojciec/postvault/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPostService_SavePost(t *testing.T) {
	t.Parallel()

	t.Run("logs id and duplicate flag", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PostService{
			SavePostFn: func(ctx context.Context, post *postvault.Post) (*postvault.SaveResult, error) {
				return &postvault.SaveResult{Duplicate: true, PostCount: 7}, nil
			},
		}

		svc := pvslog.NewLoggingPostService(inner, logger)
		result, err := svc.SavePost(context.Background(), &postvault.Post{ID: "111", Author: postvault.Author{Name: "Ada"}})

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		output := buf.String()
		assert.Contains(t, output, "save post")
		assert.Contains(t, output, "id=111")
		assert.Contains(t, output, "author=Ada")
		assert.Contains(t, output, "duplicate=true")
		assert.Contains(t, output, "count=7")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PostService{
			SavePostFn: func(ctx context.Context, post *postvault.Post) (*postvault.SaveResult, error) {
				return nil, errors.New("disk full")
			},
		}

		svc := pvslog.NewLoggingPostService(inner, logger)
		_, err := svc.SavePost(context.Background(), &postvault.Post{ID: "111"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "err=\"disk full\"")
		assert.NotContains(t, output, "duplicate=")
	})
}

func TestLoggingPostService_Reads(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.PostService{
		FindPostByIDFn: func(ctx context.Context, id string) (*postvault.Post, error) {
			return nil, postvault.Errorf(postvault.ENOTFOUND, "post not found")
		},
		FindPostsFn: func(ctx context.Context, filter postvault.PostFilter) ([]*postvault.Post, error) {
			return []*postvault.Post{{ID: "1"}, {ID: "2"}}, nil
		},
		CountPostsFn: func(ctx context.Context) (int, error) {
			return 2, nil
		},
		ClearPostsFn: func(ctx context.Context) error {
			return nil
		},
	}

	svc := pvslog.NewLoggingPostService(inner, logger)
	ctx := context.Background()

	_, err := svc.FindPostByID(ctx, "missing")
	assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))

	posts, err := svc.FindPosts(ctx, postvault.PostFilter{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	n, err := svc.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.ClearPosts(ctx))

	output := buf.String()
	assert.Contains(t, output, "find post")
	assert.Contains(t, output, "id=missing")
	assert.Contains(t, output, "find posts")
	assert.Contains(t, output, "limit=5")
	assert.Contains(t, output, "count posts")
	assert.Contains(t, output, "clear posts")
}
