package postvault

import (
	"context"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderVoyage = "voyage"
)

// Provider describes an embedding API.
type Provider struct {
	Name         string
	KeyPrefix    string
	Models       []string
	DefaultModel string
}

// HasKeyPrefix reports whether key looks like a key for this provider.
func (p Provider) HasKeyPrefix(key string) bool {
	return strings.HasPrefix(key, p.KeyPrefix)
}

// HasModel reports whether the provider offers model.
func (p Provider) HasModel(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}

// Providers lists the supported embedding providers by name.
var Providers = map[string]Provider{
	ProviderGemini: {
		Name:         "Google Gemini",
		KeyPrefix:    "AIza",
		Models:       []string{"gemini-embedding-001", "text-embedding-004"},
		DefaultModel: "gemini-embedding-001",
	},
	ProviderOpenAI: {
		Name:         "OpenAI",
		KeyPrefix:    "sk-",
		Models:       []string{"text-embedding-3-small", "text-embedding-3-large", "text-embedding-ada-002"},
		DefaultModel: "text-embedding-3-small",
	},
	ProviderVoyage: {
		Name:         "Voyage AI",
		KeyPrefix:    "pa-",
		Models:       []string{"voyage-3", "voyage-3-lite", "voyage-code-3"},
		DefaultModel: "voyage-3",
	},
}

// Embedder turns text into a vector.
type Embedder interface {
	// Embed returns the embedding of text computed by model.
	Embed(ctx context.Context, text, model string) ([]float32, error)
}

// MaxEmbeddingText caps the text sent to an Embedder.
const MaxEmbeddingText = 10000

// EmbeddingText builds the text embedded for a post from its author,
// content, shared article and up to five non-empty comments.
func EmbeddingText(post *Post) string {
	var parts []string
	if post.Author.Name != "" {
		parts = append(parts, "Author: "+post.Author.Name)
	}
	if post.Author.Headline != "" {
		parts = append(parts, "Headline: "+post.Author.Headline)
	}
	if post.Content != "" {
		parts = append(parts, "Content: "+post.Content)
	}
	if post.SharedArticle != nil && post.SharedArticle.Title != "" {
		parts = append(parts, "Shared: "+post.SharedArticle.Title)
	}

	comments := post.Comments
	if len(comments) > 5 {
		comments = comments[:5]
	}
	var top []string
	for _, c := range comments {
		if c.Content != "" {
			top = append(top, c.Content)
		}
	}
	if len(top) > 0 {
		parts = append(parts, "Comments: "+strings.Join(top, " | "))
	}

	return truncate(strings.Join(parts, "\n"), MaxEmbeddingText)
}

// EmbeddingEntry is the embedding of one post. A failed entry has a nil
// Embedding and a non-empty Error.
type EmbeddingEntry struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// NewEmbeddingEntry returns an entry describing post without a vector.
func NewEmbeddingEntry(post *Post) EmbeddingEntry {
	author := post.Author.Name
	if author == "" {
		author = "Unknown"
	}
	title := truncate(post.Content, 100)
	if title == "" {
		title = "No title"
	}
	return EmbeddingEntry{ID: post.ID, URL: post.URL, Author: author, Title: title}
}

// EmbeddingExport is the document written to embeddings.json.
type EmbeddingExport struct {
	Provider    string           `json:"provider"`
	Model       string           `json:"model"`
	GeneratedAt string           `json:"generated_at"`
	Count       int              `json:"count"`
	Embeddings  []EmbeddingEntry `json:"embeddings"`
}

// NewEmbeddingExport wraps entries, counting the ones with a vector.
func NewEmbeddingExport(provider, model string, generatedAt time.Time, entries []EmbeddingEntry) *EmbeddingExport {
	count := 0
	for _, e := range entries {
		if e.Embedding != nil {
			count++
		}
	}
	return &EmbeddingExport{
		Provider:    provider,
		Model:       model,
		GeneratedAt: FormatTime(generatedAt),
		Count:       count,
		Embeddings:  entries,
	}
}

// VectorSink receives successfully embedded posts.
type VectorSink interface {
	// UpsertEmbeddings stores entries, replacing vectors with the same ID.
	UpsertEmbeddings(ctx context.Context, entries []EmbeddingEntry) error
}
