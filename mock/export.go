package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var _ postvault.ExportStore = (*ExportStore)(nil)

// ExportStore is a mock implementation of postvault.ExportStore.
type ExportStore struct {
	SaveFn   func(ctx context.Context, name string, data []byte) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ExportStore) Save(ctx context.Context, name string, data []byte) error {
	return s.SaveFn(ctx, name, data)
}

func (s *ExportStore) Commit() error {
	return s.CommitFn()
}

func (s *ExportStore) Abort() error {
	return s.AbortFn()
}

var _ postvault.FeedBuilder = (*FeedBuilder)(nil)

// FeedBuilder is a mock implementation of postvault.FeedBuilder.
type FeedBuilder struct {
	BuildFn func(posts []*postvault.Post) ([]byte, error)
}

func (b *FeedBuilder) Build(posts []*postvault.Post) ([]byte, error) {
	return b.BuildFn(posts)
}
