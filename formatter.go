package postvault

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// isoMillis matches the timestamp layout used across exported files.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t as a UTC ISO-8601 timestamp with milliseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// FormatPost renders a post as Markdown with YAML frontmatter.
func FormatPost(post *Post) string {
	return "---\n" + formatFrontmatter(post) + "---\n\n" + formatBody(post)
}

// Title returns the first 60 characters of the post content on one line,
// or "Untitled" for posts without content.
func Title(post *Post) string {
	title := truncate(post.Content, 60)
	if title == "" {
		return "Untitled"
	}
	return strings.ReplaceAll(title, "\n", " ")
}

func formatFrontmatter(post *Post) string {
	var lines []string

	lines = append(lines, fmt.Sprintf(`title: "%s"`, SanitizeYAML(Title(post))))

	if post.Author.Name != "" {
		lines = append(lines, fmt.Sprintf(`author: "[[%s]]"`, SanitizeYAML(post.Author.Name)))
	}
	if post.Author.Headline != "" {
		lines = append(lines, fmt.Sprintf(`author_headline: "%s"`, SanitizeYAML(post.Author.Headline)))
	}
	if post.Author.ProfileURL != "" {
		lines = append(lines, fmt.Sprintf(`author_url: "%s"`, SanitizeYAML(post.Author.ProfileURL)))
	}

	if post.PostedDate != "" {
		lines = append(lines, fmt.Sprintf(`posted_date: "%s"`, SanitizeYAML(post.PostedDate)))
	}
	lines = append(lines, fmt.Sprintf(`captured_date: "%s"`, FormatTime(post.CapturedAt)))

	lines = append(lines, fmt.Sprintf(`url: "%s"`, SanitizeYAML(post.URL)))
	lines = append(lines, fmt.Sprintf(`post_id: "%s"`, SanitizeYAML(post.ID)))

	lines = append(lines, fmt.Sprintf("reactions: %d", post.Engagement.Reactions))
	lines = append(lines, fmt.Sprintf("comments_count: %d", post.Engagement.Comments))
	lines = append(lines, fmt.Sprintf("reposts: %d", post.Engagement.Reposts))

	if tags := ExtractHashtags(post.Content); len(tags) > 0 {
		lines = append(lines, "tags:")
		for _, tag := range tags {
			lines = append(lines, fmt.Sprintf(`  - "%s"`, SanitizeYAML(tag)))
		}
	}

	if a := post.SharedArticle; a != nil {
		if a.Title != "" {
			lines = append(lines, fmt.Sprintf(`shared_article: "%s"`, SanitizeYAML(a.Title)))
		}
		if a.URL != "" {
			lines = append(lines, fmt.Sprintf(`shared_url: "%s"`, SanitizeYAML(a.URL)))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func formatBody(post *Post) string {
	var sections []string

	if post.Author.Name != "" {
		sections = append(sections, "# "+post.Author.Name+"\n")
		if post.Author.Headline != "" {
			sections = append(sections, "*"+post.Author.Headline+"*\n")
		}
		if post.Author.ProfileURL != "" {
			sections = append(sections, "[View Profile]("+post.Author.ProfileURL+")\n")
		}
	}

	if post.Content != "" {
		sections = append(sections, "## Post\n", post.Content+"\n")
	}

	if a := post.SharedArticle; a != nil {
		sections = append(sections, "## Shared Article\n")
		if a.URL != "" {
			sections = append(sections, "**["+a.Title+"]("+a.URL+")**\n")
		} else {
			sections = append(sections, "**"+a.Title+"**\n")
		}
		if a.Domain != "" {
			sections = append(sections, "*"+a.Domain+"*\n")
		}
		if a.Excerpt != "" {
			sections = append(sections, quote(a.Excerpt)+"\n")
		}
	}

	if len(post.Links) > 0 {
		sections = append(sections, "## Links\n")
		for _, link := range post.Links {
			title := link.Title
			if title == "" {
				title = link.URL
			}
			sections = append(sections, "- ["+title+"]("+link.URL+")")
		}
		sections = append(sections, "")
	}

	if len(post.Media) > 0 {
		sections = append(sections, "## Media\n")
		for _, m := range post.Media {
			switch m.Type {
			case MediaImage:
				alt := m.Alt
				if alt == "" {
					alt = "Image"
				}
				sections = append(sections, "!["+alt+"]("+m.URL+")\n")
			case MediaVideo:
				sections = append(sections, "[Video]("+m.URL+")\n")
			case MediaDocument:
				title := m.Title
				if title == "" {
					title = "Document"
				}
				sections = append(sections, "["+title+"]("+m.URL+")\n")
			}
		}
	}

	if len(post.Comments) > 0 {
		sections = append(sections, fmt.Sprintf("## Comments (%d)\n", len(post.Comments)))
		for _, c := range post.Comments {
			if c.Author != "" {
				sections = append(sections, "### "+c.Author)
				if c.AuthorHeadline != "" {
					sections = append(sections, "*"+c.AuthorHeadline+"*\n")
				}
			} else {
				sections = append(sections, "### Comment")
			}
			if c.Content != "" {
				sections = append(sections, c.Content+"\n")
			}
			if c.Reactions > 0 {
				sections = append(sections, fmt.Sprintf("👍 %d\n", c.Reactions))
			}
			sections = append(sections, "---\n")
		}
	}

	sections = append(sections, "---\n")
	sections = append(sections, fmt.Sprintf("*%d reactions · %d comments · %d reposts*\n",
		post.Engagement.Reactions, post.Engagement.Comments, post.Engagement.Reposts))
	sections = append(sections, "\n[View on LinkedIn]("+post.URL+")")

	return strings.Join(sections, "\n")
}

// AuthorIndex collects the saved posts of a single author.
type AuthorIndex struct {
	Name       string
	Headline   string
	ProfileURL string
	Posts      []AuthorIndexEntry
}

// AuthorIndexEntry links an author index to one post file.
type AuthorIndexEntry struct {
	File  string
	Title string
	Date  string
}

// FormatAuthorIndex renders an author index as Markdown with frontmatter.
// Each saved post is listed as a wiki link to its file.
func FormatAuthorIndex(idx AuthorIndex) string {
	var lines []string

	lines = append(lines, "---")
	lines = append(lines, fmt.Sprintf(`name: "%s"`, SanitizeYAML(idx.Name)))
	if idx.Headline != "" {
		lines = append(lines, fmt.Sprintf(`headline: "%s"`, SanitizeYAML(idx.Headline)))
	}
	if idx.ProfileURL != "" {
		lines = append(lines, fmt.Sprintf(`profile_url: "%s"`, SanitizeYAML(idx.ProfileURL)))
	}
	lines = append(lines, fmt.Sprintf("posts_saved: %d", len(idx.Posts)))
	lines = append(lines, "---\n")

	lines = append(lines, "# "+idx.Name+"\n")
	if idx.Headline != "" {
		lines = append(lines, "*"+idx.Headline+"*\n")
	}
	if idx.ProfileURL != "" {
		lines = append(lines, "[View Profile]("+idx.ProfileURL+")\n")
	}

	lines = append(lines, "## Saved Posts\n")
	for _, p := range idx.Posts {
		title := truncate(strings.Join(strings.Fields(p.Title), " "), 50)
		if title == "" {
			title = "Post"
		}
		date, _, _ := strings.Cut(p.Date, "T")
		file := strings.Replace(p.File, ".md", "", 1)
		lines = append(lines, fmt.Sprintf("- [[%s|%s...]] (%s)", file, title, date))
	}

	return strings.Join(lines, "\n")
}

// GroupByAuthor builds one index per named author, in order of first
// appearance. Posts without an author name are not indexed.
func GroupByAuthor(posts []*Post) []AuthorIndex {
	var indexes []AuthorIndex
	pos := make(map[string]int)
	files := Filenames(posts)

	for n, p := range posts {
		name := p.Author.Name
		if name == "" {
			continue
		}
		i, ok := pos[name]
		if !ok {
			i = len(indexes)
			pos[name] = i
			indexes = append(indexes, AuthorIndex{Name: name})
		}
		idx := &indexes[i]
		if idx.Headline == "" {
			idx.Headline = p.Author.Headline
		}
		if idx.ProfileURL == "" {
			idx.ProfileURL = p.Author.ProfileURL
		}
		idx.Posts = append(idx.Posts, AuthorIndexEntry{
			File:  files[n],
			Title: p.Content,
			Date:  FormatTime(p.CapturedAt),
		})
	}

	return indexes
}

var (
	hashtagRe    = regexp.MustCompile(`#(\w+)`)
	slugRe       = regexp.MustCompile(`[^a-z0-9]+`)
	titleStripRe = regexp.MustCompile(`[^a-z0-9\s]+`)
	unsafeFileRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// ExtractHashtags returns the lowercased, de-duplicated hashtags found
// in content, in order of first occurrence.
func ExtractHashtags(content string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range hashtagRe.FindAllStringSubmatch(content, -1) {
		tag := strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// Filename returns a deterministic file name for a post:
// <capture date>-<author slug>-<first five words>.md
// A post without a capture time is dated 0001-01-01.
func Filename(post *Post) string {
	date := post.CapturedAt.UTC().Format("2006-01-02")

	name := post.Author.Name
	if name == "" {
		name = "unknown"
	}
	author := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	author = strings.TrimSuffix(strings.TrimPrefix(author, "-"), "-")
	author = truncate(author, 30)

	content := post.Content
	if content == "" {
		content = "post"
	}
	words := strings.Fields(titleStripRe.ReplaceAllString(strings.ToLower(truncate(content, 50)), ""))
	if len(words) > 5 {
		words = words[:5]
	}

	return date + "-" + author + "-" + strings.Join(words, "-") + ".md"
}

// Filenames returns the file name of every post. Repeated names get a
// numeric suffix so no two posts share a file.
func Filenames(posts []*Post) []string {
	names := make([]string, len(posts))
	seen := make(map[string]int)
	for i, p := range posts {
		name := Filename(p)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d.md", strings.TrimSuffix(name, ".md"), n)
		}
		names[i] = name
	}
	return names
}

// SanitizeYAML makes text safe inside a double-quoted YAML scalar.
func SanitizeYAML(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.TrimSpace(text)
}

// SanitizeTitle strips characters that are not allowed in file names.
func SanitizeTitle(text string) string {
	text = unsafeFileRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return "untitled"
	}
	return text
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func quote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("> "+l, " ")
	}
	return strings.Join(lines, "\n")
}
