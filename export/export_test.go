package export_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/etree"
	"github.com/fwojciec/postvault/export"
	"github.com/fwojciec/postvault/fs"
	"github.com/fwojciec/postvault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var exportedAt = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func testPosts() []*postvault.Post {
	captured := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []*postvault.Post{
		{
			ID: "111", URL: "https://www.linkedin.com/feed/update/urn:li:activity:111/",
			CapturedAt: captured, Author: postvault.Author{Name: "Ada Lovelace"},
			Content: "Engines and looms", Comments: []postvault.Comment{}, Media: []postvault.Media{}, Links: []postvault.Link{},
		},
		{
			ID: "222", URL: "https://www.linkedin.com/feed/update/urn:li:activity:222/",
			CapturedAt: captured, Author: postvault.Author{Name: "Grace Hopper"},
			Content: "Nanoseconds explained", Comments: []postvault.Comment{}, Media: []postvault.Media{}, Links: []postvault.Link{},
		},
		{
			ID: "333", URL: "https://www.linkedin.com/feed/update/urn:li:activity:333/",
			CapturedAt: captured, Author: postvault.Author{Name: "Ada Lovelace"},
			Content: "Notes on notes", Comments: []postvault.Comment{}, Media: []postvault.Media{}, Links: []postvault.Link{},
		},
	}
}

func newExporter(store postvault.ExportStore) *export.Exporter {
	feed := etree.NewFeedBuilder()
	feed.Now = func() time.Time { return exportedAt }
	return &export.Exporter{
		Store:    store,
		Feed:     feed,
		Provider: postvault.ProviderOpenAI,
		Model:    "text-embedding-3-small",
		Rate:     rate.Inf,
		Now:      func() time.Time { return exportedAt },
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err, name)
	return string(data)
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes json markdown authors and feed", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		exp := newExporter(fs.NewFileStore(base, "out"))
		posts := testPosts()

		sum, err := exp.Export(context.Background(), posts, export.Options{}, nil)
		require.NoError(t, err)

		assert.Equal(t, &export.Summary{Posts: 3, Authors: 2, Feed: true}, sum)

		dir := filepath.Join(base, "out")
		var decoded []*postvault.Post
		require.NoError(t, json.Unmarshal([]byte(readFile(t, dir, "posts.json")), &decoded))
		require.Len(t, decoded, 3)
		assert.Equal(t, "222", decoded[1].ID)

		assert.Equal(t, postvault.FormatPost(posts[0]), readFile(t, dir, "posts/"+postvault.Filename(posts[0])))
		assert.Contains(t, readFile(t, dir, "authors/Ada Lovelace.md"), postvault.Filename(posts[2]))
		assert.Contains(t, readFile(t, dir, "feed.xml"), "<guid isPermaLink=\"false\">333</guid>")

		_, err = os.Stat(filepath.Join(dir, "embeddings.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("records per-post embedding failures", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		exp := newExporter(fs.NewFileStore(base, "out"))
		exp.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text, model string) ([]float32, error) {
				if text == "Author: Grace Hopper\nContent: Nanoseconds explained" {
					return nil, errors.New("rate limit exceeded")
				}
				return []float32{1, 2}, nil
			},
		}

		var mu sync.Mutex
		var events []postvault.ExportProgress
		sum, err := exp.Export(context.Background(), testPosts(), export.Options{Embeddings: true}, func(p postvault.ExportProgress) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, p)
		})
		require.NoError(t, err)

		assert.Equal(t, 2, sum.Embedded)
		assert.Equal(t, 1, sum.EmbedFailed)
		require.Len(t, events, 3)
		assert.Equal(t, 3, events[2].Completed)
		assert.Equal(t, 3, events[2].Total)

		var doc postvault.EmbeddingExport
		require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(base, "out"), "embeddings.json")), &doc))
		assert.Equal(t, postvault.ProviderOpenAI, doc.Provider)
		assert.Equal(t, "text-embedding-3-small", doc.Model)
		assert.Equal(t, "2024-02-01T12:00:00.000Z", doc.GeneratedAt)
		assert.Equal(t, 2, doc.Count)
		require.Len(t, doc.Embeddings, 3)
		assert.Equal(t, "111", doc.Embeddings[0].ID)
		assert.Equal(t, []float32{1, 2}, doc.Embeddings[0].Embedding)
		assert.Nil(t, doc.Embeddings[1].Embedding)
		assert.Equal(t, "rate limit exceeded", doc.Embeddings[1].Error)
	})

	t.Run("writes null for failed vectors", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		exp := newExporter(fs.NewFileStore(base, "out"))
		exp.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text, model string) ([]float32, error) {
				return nil, errors.New("bad key")
			},
		}

		_, err := exp.Export(context.Background(), testPosts()[:1], export.Options{Embeddings: true}, nil)
		require.NoError(t, err)

		var raw struct {
			Count      int                          `json:"count"`
			Embeddings []map[string]json.RawMessage `json:"embeddings"`
		}
		require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(base, "out"), "embeddings.json")), &raw))
		assert.Equal(t, 0, raw.Count)
		assert.Equal(t, "null", string(raw.Embeddings[0]["embedding"]))
	})

	t.Run("sends successful entries to the sink", func(t *testing.T) {
		t.Parallel()

		exp := newExporter(fs.NewFileStore(t.TempDir(), "out"))
		exp.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text, model string) ([]float32, error) {
				return []float32{0.5}, nil
			},
		}
		var got []postvault.EmbeddingEntry
		exp.Sink = &mock.VectorSink{
			UpsertEmbeddingsFn: func(ctx context.Context, entries []postvault.EmbeddingEntry) error {
				got = entries
				return nil
			},
		}

		_, err := exp.Export(context.Background(), testPosts(), export.Options{Embeddings: true}, nil)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("rejects embeddings without embedder", func(t *testing.T) {
		t.Parallel()

		store := &mock.ExportStore{}
		exp := newExporter(store)

		_, err := exp.Export(context.Background(), testPosts(), export.Options{Embeddings: true}, nil)
		require.Error(t, err)
		assert.Equal(t, postvault.EINVALID, postvault.ErrorCode(err))
	})

	t.Run("aborts store on failure", func(t *testing.T) {
		t.Parallel()

		aborted := false
		store := &mock.ExportStore{
			SaveFn: func(ctx context.Context, name string, data []byte) error {
				if name == "feed.xml" {
					return errors.New("disk full")
				}
				return nil
			},
			CommitFn: func() error {
				t.Fatal("commit should not be called")
				return nil
			},
			AbortFn: func() error {
				aborted = true
				return nil
			},
		}

		_, err := newExporter(store).Export(context.Background(), testPosts(), export.Options{}, nil)
		require.Error(t, err)
		assert.True(t, aborted)
	})

	t.Run("aborts when sink fails", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		exp := newExporter(fs.NewFileStore(base, "out"))
		exp.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text, model string) ([]float32, error) {
				return []float32{0.5}, nil
			},
		}
		exp.Sink = &mock.VectorSink{
			UpsertEmbeddingsFn: func(ctx context.Context, entries []postvault.EmbeddingEntry) error {
				return errors.New("qdrant down")
			},
		}

		_, err := exp.Export(context.Background(), testPosts(), export.Options{Embeddings: true}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upsert embeddings")

		_, statErr := os.Stat(filepath.Join(base, "out.tmp"))
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(filepath.Join(base, "out"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		exp := newExporter(fs.NewFileStore(t.TempDir(), "out"))
		exp.Concurrency = 1
		exp.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text, model string) ([]float32, error) {
				cancel()
				return nil, ctx.Err()
			},
		}

		_, err := exp.Export(ctx, testPosts(), export.Options{Embeddings: true}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("writes empty export", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		exp := newExporter(fs.NewFileStore(base, "out"))

		sum, err := exp.Export(context.Background(), nil, export.Options{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, sum.Posts)
		assert.Equal(t, "[]", readFile(t, filepath.Join(base, "out"), "posts.json"))
	})
}
