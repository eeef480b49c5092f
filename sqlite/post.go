package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/postvault"
)

// Compile-time interface verification.
var _ postvault.PostService = (*PostService)(nil)

// PostService implements postvault.PostService using SQLite.
// Each post is stored as its JSON encoding with a few indexed columns
// alongside for lookup and ordering.
type PostService struct {
	db *DB
}

// NewPostService creates a new PostService.
func NewPostService(db *DB) *PostService {
	return &PostService{db: db}
}

// SavePost appends a post unless one with the same ID already exists.
// The insert and the count update share one transaction. The stored record
// carries the content hash and, when missing, the save time as capture time;
// the caller's post is left untouched.
func (s *PostService) SavePost(ctx context.Context, post *postvault.Post) (*postvault.SaveResult, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	p := *post
	if p.CapturedAt.IsZero() {
		p.CapturedAt = time.Now().UTC()
	}
	p.ContentHash = hashContent(p.Content)

	data, err := json.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE id = ?", p.ID).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if exists > 0 {
		count, err := postCount(ctx, tx)
		if err != nil {
			return nil, err
		}
		return &postvault.SaveResult{Duplicate: true, PostCount: count}, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (id, position, url, author_name, content_hash, captured_at, data)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM posts), ?, ?, ?, ?, ?)
	`, p.ID, p.URL, p.Author.Name, p.ContentHash,
		p.CapturedAt.UTC().Format(time.RFC3339Nano), string(data))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE meta SET value = value + 1 WHERE key = 'postCount'"); err != nil {
		return nil, err
	}

	count, err := postCount(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &postvault.SaveResult{PostCount: count}, nil
}

// FindPostByID retrieves a post by ID.
func (s *PostService) FindPostByID(ctx context.Context, id string) (*postvault.Post, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM posts WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postvault.Errorf(postvault.ENOTFOUND, "post not found")
	}
	if err != nil {
		return nil, err
	}
	return decodePost(data)
}

// FindPosts retrieves posts matching the filter in the order they were saved.
func (s *PostService) FindPosts(ctx context.Context, filter postvault.PostFilter) ([]*postvault.Post, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT data FROM posts WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Author != nil {
		query.WriteString(" AND author_name = ?")
		args = append(args, *filter.Author)
	}

	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*postvault.Post{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		post, err := decodePost(data)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// CountPosts returns the stored post count.
func (s *PostService) CountPosts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'postCount'").Scan(&count)
	return count, err
}

// ClearPosts removes every post and resets the count.
func (s *PostService) ClearPosts(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE meta SET value = 0 WHERE key = 'postCount'"); err != nil {
		return err
	}

	return tx.Commit()
}

func postCount(ctx context.Context, tx *sql.Tx) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'postCount'").Scan(&count)
	return count, err
}

func decodePost(data string) (*postvault.Post, error) {
	var post postvault.Post
	if err := json.Unmarshal([]byte(data), &post); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return &post, nil
}
