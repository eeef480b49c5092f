package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/postvault"
	main "github.com/fwojciec/postvault/cmd/postvault"
	"github.com/fwojciec/postvault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists posts with ID, date, author and title", func(t *testing.T) {
		t.Parallel()

		var gotFilter postvault.PostFilter
		deps, stdout, _ := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(_ context.Context, filter postvault.PostFilter) ([]*postvault.Post, error) {
				gotFilter = filter
				return []*postvault.Post{
					{
						ID:         "111",
						CapturedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
						Author:     postvault.Author{Name: "Ada Lovelace"},
						Content:    "Engines and looms",
					},
					{
						ID:         "222",
						CapturedAt: time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		err := (&main.ListCmd{Author: "Ada Lovelace", Limit: 10}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.Author)
		assert.Equal(t, "Ada Lovelace", *gotFilter.Author)
		assert.Equal(t, 10, gotFilter.Limit)

		output := stdout.String()
		assert.Contains(t, output, "111  2024-01-15  Ada Lovelace  Engines and looms")
		assert.Contains(t, output, "222  2024-01-16  Unknown  Untitled")
	})

	t.Run("shows helpful message when no posts exist", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(context.Context, postvault.PostFilter) ([]*postvault.Post, error) {
				return []*postvault.Post{}, nil
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No posts saved")
	})

	t.Run("returns error when FindPosts fails", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		deps, _, stderr := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(context.Context, postvault.PostFilter) ([]*postvault.Post, error) {
				return nil, dbErr
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, dbErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
