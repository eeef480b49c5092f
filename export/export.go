// Package export writes captured posts to disk as JSON, Markdown, an RSS
// feed and, optionally, vector embeddings.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/postvault"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for embedding generation.
const (
	DefaultRate        rate.Limit = 10
	DefaultConcurrency            = 4
)

// Artifact names inside the export directory.
const (
	PostsFile      = "posts.json"
	FeedFile       = "feed.xml"
	EmbeddingsFile = "embeddings.json"
	PostsDir       = "posts"
	AuthorsDir     = "authors"
)

// Exporter writes an export into Store. Feed, Embedder and Sink are
// optional.
type Exporter struct {
	Store    postvault.ExportStore
	Feed     postvault.FeedBuilder
	Embedder postvault.Embedder
	Sink     postvault.VectorSink
	Logger   *slog.Logger

	// Provider and Model are recorded in embeddings.json and passed to
	// the Embedder.
	Provider string
	Model    string

	// Rate caps embedding requests per second; Concurrency caps requests
	// in flight.
	Rate        rate.Limit
	Concurrency int

	// Now returns the export time. Defaults to time.Now.
	Now func() time.Time
}

// Options selects optional artifacts.
type Options struct {
	Embeddings bool
}

// Summary describes a finished export.
type Summary struct {
	Posts       int
	Authors     int
	Feed        bool
	Embedded    int
	EmbedFailed int
}

// Export writes every artifact and commits the store. Any failure aborts
// the store so a partial export is never left behind. Embedding failures
// are recorded per post and do not fail the export.
func (e *Exporter) Export(ctx context.Context, posts []*postvault.Post, opts Options, progress postvault.ExportProgressFunc) (_ *Summary, err error) {
	if opts.Embeddings && e.Embedder == nil {
		return nil, postvault.Errorf(postvault.EINVALID, "embeddings requested but no embedding provider is configured")
	}
	if posts == nil {
		posts = []*postvault.Post{}
	}

	defer func() {
		if err == nil {
			return
		}
		if abortErr := e.Store.Abort(); abortErr != nil {
			e.logger().Warn("abort export", "err", abortErr)
		}
	}()

	sum := &Summary{Posts: len(posts)}

	if err := e.saveJSON(ctx, PostsFile, posts); err != nil {
		return nil, err
	}

	for i, name := range postvault.Filenames(posts) {
		if err := e.Store.Save(ctx, PostsDir+"/"+name, []byte(postvault.FormatPost(posts[i]))); err != nil {
			return nil, fmt.Errorf("save post %s: %w", posts[i].ID, err)
		}
	}

	for _, idx := range postvault.GroupByAuthor(posts) {
		name := AuthorsDir + "/" + postvault.SanitizeTitle(idx.Name) + ".md"
		if err := e.Store.Save(ctx, name, []byte(postvault.FormatAuthorIndex(idx))); err != nil {
			return nil, fmt.Errorf("save author %s: %w", idx.Name, err)
		}
		sum.Authors++
	}

	if e.Feed != nil {
		feed, err := e.Feed.Build(posts)
		if err != nil {
			return nil, fmt.Errorf("build feed: %w", err)
		}
		if err := e.Store.Save(ctx, FeedFile, feed); err != nil {
			return nil, err
		}
		sum.Feed = true
	}

	if opts.Embeddings {
		entries, err := e.embed(ctx, posts, progress)
		if err != nil {
			return nil, err
		}

		doc := postvault.NewEmbeddingExport(e.Provider, e.Model, e.now(), entries)
		if err := e.saveJSON(ctx, EmbeddingsFile, doc); err != nil {
			return nil, err
		}
		sum.Embedded = doc.Count
		sum.EmbedFailed = len(entries) - doc.Count

		if e.Sink != nil && doc.Count > 0 {
			if err := e.Sink.UpsertEmbeddings(ctx, entries); err != nil {
				return nil, fmt.Errorf("upsert embeddings: %w", err)
			}
		}
	}

	if err := e.Store.Commit(); err != nil {
		return nil, fmt.Errorf("commit export: %w", err)
	}

	return sum, nil
}

// embed generates one entry per post, in post order. Requests run
// concurrently under the rate limit.
func (e *Exporter) embed(ctx context.Context, posts []*postvault.Post, progress postvault.ExportProgressFunc) ([]postvault.EmbeddingEntry, error) {
	limit := e.Rate
	if limit == 0 {
		limit = DefaultRate
	}
	limiter := rate.NewLimiter(limit, 1)

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	entries := make([]postvault.EmbeddingEntry, len(posts))
	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, post := range posts {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			entry := postvault.NewEmbeddingEntry(post)
			vec, err := e.Embedder.Embed(gctx, postvault.EmbeddingText(post), e.Model)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				entry.Error = err.Error()
				e.logger().Warn("embed post", "id", post.ID, "err", err)
			} else {
				entry.Embedding = vec
			}
			entries[i] = entry

			mu.Lock()
			defer mu.Unlock()
			completed++
			if progress != nil {
				progress(postvault.ExportProgress{
					PostID:    post.ID,
					Completed: completed,
					Total:     len(posts),
					Error:     err,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (e *Exporter) saveJSON(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return e.Store.Save(ctx, name, data)
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}
