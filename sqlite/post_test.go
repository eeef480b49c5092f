package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(id string) *postvault.Post {
	return &postvault.Post{
		ID:         id,
		URL:        "https://www.linkedin.com/feed/update/urn:li:activity:" + id + "/",
		CapturedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Author:     postvault.Author{Name: "Ada Lovelace"},
		Content:    "Post number " + id,
		Comments:   []postvault.Comment{},
		Media:      []postvault.Media{},
		Links:      []postvault.Link{},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestPostService_SavePost(t *testing.T) {
	t.Parallel()

	t.Run("appends new post and bumps the count", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)
		ctx := context.Background()

		post := newPost("111")
		result, err := svc.SavePost(ctx, post)
		require.NoError(t, err)

		assert.False(t, result.Duplicate)
		assert.Equal(t, 1, result.PostCount)

		stored, err := svc.FindPostByID(ctx, "111")
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ContentHash, "ContentHash should be set")
	})

	t.Run("leaves the caller's post unchanged", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)
		ctx := context.Background()

		post := newPost("111")
		post.CapturedAt = time.Time{}
		want := *post

		_, err := svc.SavePost(ctx, post)
		require.NoError(t, err)
		assert.Equal(t, want, *post)

		result, err := svc.SavePost(ctx, post)
		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, want, *post)
	})

	t.Run("reports duplicate without changing the count", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)
		ctx := context.Background()

		_, err := svc.SavePost(ctx, newPost("111"))
		require.NoError(t, err)
		_, err = svc.SavePost(ctx, newPost("222"))
		require.NoError(t, err)

		again := newPost("111")
		again.Content = "edited later"
		result, err := svc.SavePost(ctx, again)
		require.NoError(t, err)

		assert.True(t, result.Duplicate)
		assert.Equal(t, 2, result.PostCount)

		stored, err := svc.FindPostByID(ctx, "111")
		require.NoError(t, err)
		assert.Equal(t, "Post number 111", stored.Content)
	})

	t.Run("sets captured time when missing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)

		post := newPost("111")
		post.CapturedAt = time.Time{}
		_, err := svc.SavePost(context.Background(), post)
		require.NoError(t, err)

		stored, err := svc.FindPostByID(context.Background(), "111")
		require.NoError(t, err)
		assert.False(t, stored.CapturedAt.IsZero())
	})

	t.Run("returns error for invalid post", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)

		_, err := svc.SavePost(context.Background(), &postvault.Post{URL: "https://example.com"})
		require.Error(t, err)
		assert.Equal(t, postvault.EINVALID, postvault.ErrorCode(err))

		count, err := svc.CountPosts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("identical content hashes the same", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)
		ctx := context.Background()

		a := newPost("1")
		b := newPost("2")
		b.Content = a.Content
		_, err := svc.SavePost(ctx, a)
		require.NoError(t, err)
		_, err = svc.SavePost(ctx, b)
		require.NoError(t, err)

		storedA, err := svc.FindPostByID(ctx, "1")
		require.NoError(t, err)
		storedB, err := svc.FindPostByID(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, storedA.ContentHash, storedB.ContentHash)
		assert.Len(t, storedA.ContentHash, 16)
	})
}

func TestPostService_FindPostByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the full record", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)
		ctx := context.Background()

		post := newPost("111")
		post.PostedDate = "2024-01-14"
		post.Author.Headline = "Analyst"
		post.Engagement = postvault.Engagement{Reactions: 1234, Comments: 5, Reposts: 2}
		post.SharedArticle = &postvault.SharedArticle{Title: "Notes", Domain: "example.com", URL: "https://example.com/notes"}
		post.Comments = []postvault.Comment{{ID: "c1", Author: "Charles Babbage", Content: "Splendid"}}
		post.Media = []postvault.Media{{Type: postvault.MediaImage, URL: "https://media.example.com/a.jpg", Alt: "engine"}}
		post.Links = []postvault.Link{{URL: "https://example.com/x", Title: "x"}}

		_, err := svc.SavePost(ctx, post)
		require.NoError(t, err)

		found, err := svc.FindPostByID(ctx, "111")
		require.NoError(t, err)

		assert.True(t, post.CapturedAt.Equal(found.CapturedAt))
		assert.Len(t, found.ContentHash, 16)
		found.CapturedAt = post.CapturedAt
		found.ContentHash = post.ContentHash
		assert.Equal(t, post, found)
	})

	t.Run("returns not found for missing post", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)

		_, err := svc.FindPostByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))
	})
}

func TestPostService_FindPosts(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.PostService {
		t.Helper()
		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)
		for _, id := range []string{"3", "1", "2"} {
			post := newPost(id)
			if id == "2" {
				post.Author.Name = "Grace Hopper"
			}
			_, err := svc.SavePost(context.Background(), post)
			require.NoError(t, err)
		}
		return svc
	}

	ids := func(posts []*postvault.Post) []string {
		out := make([]string, len(posts))
		for i, p := range posts {
			out[i] = p.ID
		}
		return out
	}

	tests := []struct {
		name   string
		filter postvault.PostFilter
		want   []string
	}{
		{"all in save order", postvault.PostFilter{}, []string{"3", "1", "2"}},
		{"by id", postvault.PostFilter{ID: ptr("1")}, []string{"1"}},
		{"by url", postvault.PostFilter{URL: ptr("https://www.linkedin.com/feed/update/urn:li:activity:2/")}, []string{"2"}},
		{"by author", postvault.PostFilter{Author: ptr("Ada Lovelace")}, []string{"3", "1"}},
		{"limit", postvault.PostFilter{Limit: 2}, []string{"3", "1"}},
		{"offset only", postvault.PostFilter{Offset: 1}, []string{"1", "2"}},
		{"limit and offset", postvault.PostFilter{Limit: 1, Offset: 2}, []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := seed(t)
			posts, err := svc.FindPosts(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(posts))
		})
	}

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPostService(db)

		posts, err := svc.FindPosts(context.Background(), postvault.PostFilter{ID: ptr("nope")})
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestPostService_ClearPosts(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewPostService(db)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		_, err := svc.SavePost(ctx, newPost(id))
		require.NoError(t, err)
	}

	require.NoError(t, svc.ClearPosts(ctx))

	count, err := svc.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	posts, err := svc.FindPosts(ctx, postvault.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, posts)

	result, err := svc.SavePost(ctx, newPost("1"))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, 1, result.PostCount)
}
