package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postvault"
)

var _ postvault.PostService = (*LoggingPostService)(nil)

// LoggingPostService wraps a PostService with logging of writes and
// Debug logging of reads.
type LoggingPostService struct {
	next   postvault.PostService
	logger *slog.Logger
}

// NewLoggingPostService creates a new LoggingPostService.
func NewLoggingPostService(next postvault.PostService, logger *slog.Logger) *LoggingPostService {
	return &LoggingPostService{next: next, logger: logger}
}

func (s *LoggingPostService) SavePost(ctx context.Context, post *postvault.Post) (result *postvault.SaveResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"id", post.ID,
			"author", post.Author.Name,
			"comments", len(post.Comments),
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs, "duplicate", result.Duplicate, "count", result.PostCount)
		}
		s.logger.Info("save post", attrs...)
	}(time.Now())
	return s.next.SavePost(ctx, post)
}

func (s *LoggingPostService) FindPostByID(ctx context.Context, id string) (post *postvault.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find post",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPostByID(ctx, id)
}

func (s *LoggingPostService) FindPosts(ctx context.Context, filter postvault.PostFilter) (posts []*postvault.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find posts",
			"count", len(posts),
			"limit", filter.Limit,
			"offset", filter.Offset,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPosts(ctx, filter)
}

func (s *LoggingPostService) CountPosts(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("count posts",
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CountPosts(ctx)
}

func (s *LoggingPostService) ClearPosts(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("clear posts",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ClearPosts(ctx)
}
