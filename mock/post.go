package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var _ postvault.PostService = (*PostService)(nil)

// PostService is a mock implementation of postvault.PostService.
type PostService struct {
	SavePostFn     func(ctx context.Context, post *postvault.Post) (*postvault.SaveResult, error)
	FindPostByIDFn func(ctx context.Context, id string) (*postvault.Post, error)
	FindPostsFn    func(ctx context.Context, filter postvault.PostFilter) ([]*postvault.Post, error)
	CountPostsFn   func(ctx context.Context) (int, error)
	ClearPostsFn   func(ctx context.Context) error
}

func (s *PostService) SavePost(ctx context.Context, post *postvault.Post) (*postvault.SaveResult, error) {
	return s.SavePostFn(ctx, post)
}

func (s *PostService) FindPostByID(ctx context.Context, id string) (*postvault.Post, error) {
	return s.FindPostByIDFn(ctx, id)
}

func (s *PostService) FindPosts(ctx context.Context, filter postvault.PostFilter) ([]*postvault.Post, error) {
	return s.FindPostsFn(ctx, filter)
}

func (s *PostService) CountPosts(ctx context.Context) (int, error) {
	return s.CountPostsFn(ctx)
}

func (s *PostService) ClearPosts(ctx context.Context) error {
	return s.ClearPostsFn(ctx)
}
