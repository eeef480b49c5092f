package postvault

import "context"

// ExportProgress reports progress while embedding posts for export.
type ExportProgress struct {
	PostID    string
	Completed int
	Total     int
	Error     error
}

// ExportProgressFunc is called as posts are embedded.
type ExportProgressFunc func(ExportProgress)

// ExportStore persists export artifacts with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ExportStore interface {
	// Save writes data under the slash-separated relative path name.
	Save(ctx context.Context, name string, data []byte) error
	Commit() error
	Abort() error
}

// FeedBuilder renders posts as a syndication feed document.
type FeedBuilder interface {
	Build(posts []*Post) ([]byte, error)
}
