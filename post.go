package postvault

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Post represents a captured social-media post.
type Post struct {
	URL           string         `json:"url"`
	ID            string         `json:"id"`
	CapturedAt    time.Time      `json:"capturedAt"`
	PostedDate    string         `json:"postedDate"`
	Author        Author         `json:"author"`
	Content       string         `json:"content"`
	ContentHash   string         `json:"contentHash,omitempty"`
	Engagement    Engagement     `json:"engagement"`
	SharedArticle *SharedArticle `json:"sharedArticle"`
	Comments      []Comment      `json:"comments"`
	Media         []Media        `json:"media"`
	Links         []Link         `json:"links"`
}

// Validate returns an error if the post contains invalid fields.
func (p *Post) Validate() error {
	if p.ID == "" {
		return Errorf(EINVALID, "post ID required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "post URL required")
	}
	if p.Engagement.Reactions < 0 || p.Engagement.Comments < 0 || p.Engagement.Reposts < 0 {
		return Errorf(EINVALID, "post engagement counts must not be negative")
	}
	return nil
}

// Author identifies who wrote a post.
type Author struct {
	Name       string `json:"name"`
	Headline   string `json:"headline"`
	ProfileURL string `json:"profileUrl"`
}

// Engagement holds the counts parsed from a post's labels.
// Counts that could not be observed are zero.
type Engagement struct {
	Reactions int `json:"reactions"`
	Comments  int `json:"comments"`
	Reposts   int `json:"reposts"`
}

// SharedArticle is an external article attached to a post.
type SharedArticle struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
	URL    string `json:"url"`

	// Excerpt is a Markdown snapshot of the article's main content,
	// present only when the capture was asked to fetch it.
	Excerpt string `json:"excerpt,omitempty"`
}

// Comment is a single comment or reply on a post.
type Comment struct {
	ID               string `json:"id"`
	Author           string `json:"author"`
	AuthorHeadline   string `json:"authorHeadline"`
	AuthorProfileURL string `json:"authorProfileUrl"`
	Content          string `json:"content"`
	Reactions        int    `json:"reactions"`
}

// MediaType classifies a media attachment.
type MediaType string

// MediaType constants.
const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// Media is an image, video or document attached to a post.
type Media struct {
	Type  MediaType `json:"type"`
	URL   string    `json:"url"`
	Alt   string    `json:"alt,omitempty"`
	Title string    `json:"title,omitempty"`
}

// Link is an outbound link found in a post body.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SaveResult describes the outcome of SavePost.
type SaveResult struct {
	// Duplicate is true when a post with the same ID was already stored.
	// Nothing is written in that case.
	Duplicate bool `json:"duplicate"`

	// PostCount is the number of stored posts after the call.
	PostCount int `json:"postCount"`
}

// PostService represents a service for managing captured posts.
// The collection is append-only except for ClearPosts.
type PostService interface {
	// SavePost appends the post unless a post with the same ID exists.
	// A duplicate is reported through SaveResult, not as an error.
	SavePost(ctx context.Context, post *Post) (*SaveResult, error)

	// FindPostByID retrieves a post by ID.
	// Returns ENOTFOUND if post does not exist.
	FindPostByID(ctx context.Context, id string) (*Post, error)

	// FindPosts retrieves posts matching the filter in capture order.
	FindPosts(ctx context.Context, filter PostFilter) ([]*Post, error)

	// CountPosts returns the number of stored posts.
	CountPosts(ctx context.Context) (int, error)

	// ClearPosts removes every stored post and resets the count.
	ClearPosts(ctx context.Context) error
}

// PostFilter represents a filter for FindPosts.
type PostFilter struct {
	ID     *string `json:"id"`
	URL    *string `json:"url"`
	Author *string `json:"author"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

var (
	postPathRe   = regexp.MustCompile(`/posts/([^/?#]+)`)
	activityIDRe = regexp.MustCompile(`activity(?::|%3[Aa])(\d+)`)
)

// PostIDFromURL derives a stable post identifier from a post URL.
// It understands /posts/<slug> permalinks and activity URNs, both plain
// and URL-encoded. Returns an empty string when the URL carries no ID.
func PostIDFromURL(rawURL string) string {
	if m := postPathRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ActivityID(rawURL)
}

// ActivityID returns the numeric activity ID embedded in s, such as the
// tail of "urn:li:activity:7123". Returns an empty string if none is found.
func ActivityID(s string) string {
	if m := activityIDRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// IsPostURL reports whether the URL points at a single post.
func IsPostURL(rawURL string) bool {
	return strings.Contains(rawURL, "/feed/update/") || strings.Contains(rawURL, "/posts/")
}
