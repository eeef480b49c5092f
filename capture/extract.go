// Package capture turns rendered post pages into stored posts.
// It holds the extraction cascades, the comment expansion driver, the
// capture pipeline and the saved-post marker.
package capture

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/postvault"
)

// minContentLength is the shortest text accepted as post content.
// Shorter candidates are usually button captions or counters.
const minContentLength = 20

// Extractor reads a Post out of a rendered document.
// Every field is recovered through an ordered cascade of sources;
// fields no source yields stay empty.
type Extractor struct {
	Selectors Selectors

	// Now supplies the capture time. It is also the identifier of
	// last resort.
	Now func() time.Time
}

// NewExtractor returns an Extractor using DefaultSelectors.
func NewExtractor() *Extractor {
	return &Extractor{Selectors: DefaultSelectors, Now: time.Now}
}

// Extract builds a post from doc. It never fails.
// Comments are collected only when includeComments is set.
func (e *Extractor) Extract(doc postvault.Document, includeComments bool) *postvault.Post {
	clock := e.Now
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	post := &postvault.Post{
		URL:           doc.URL(),
		ID:            e.postID(doc, now),
		CapturedAt:    now.UTC(),
		Author:        e.author(doc),
		Content:       e.content(doc),
		Engagement:    e.engagement(doc),
		SharedArticle: e.sharedArticle(doc),
		Comments:      []postvault.Comment{},
		Media:         e.media(doc),
		Links:         e.links(doc),
		PostedDate:    e.postedDate(doc),
	}
	if includeComments {
		post.Comments = e.comments(doc)
	}
	return post
}

func (e *Extractor) postID(doc postvault.Document, now time.Time) string {
	if id := postvault.PostIDFromURL(doc.URL()); id != "" {
		return id
	}
	if n := doc.Query(e.Selectors.ActivityURN); n != nil {
		if id := postvault.ActivityID(n.Attr("data-urn")); id != "" {
			return id
		}
	}
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// authorStep fills in whatever it can recover into a.
type authorStep func(doc postvault.Document, a *postvault.Author)

func (e *Extractor) author(doc postvault.Document) postvault.Author {
	var a postvault.Author
	steps := []struct {
		needed func(a *postvault.Author) bool
		run    authorStep
	}{
		{needsName, e.authorFromControlMenu},
		{func(a *postvault.Author) bool { return a.Name == "" || a.Headline == "" }, e.authorFromProfileLink},
		{needsName, e.authorFromCommentsLabel},
		{needsName, e.authorFromRepostsLabel},
	}
	for _, s := range steps {
		if s.needed(&a) {
			s.run(doc, &a)
		}
	}
	return a
}

func needsName(a *postvault.Author) bool { return a.Name == "" }

func (e *Extractor) authorFromControlMenu(doc postvault.Document, a *postvault.Author) {
	a.Name = labelMatch(doc.Query(e.Selectors.ControlMenu), e.Selectors.ControlMenuLabel)
}

func (e *Extractor) authorFromProfileLink(doc postvault.Document, a *postvault.Author) {
	for _, n := range doc.QueryAll(e.Selectors.ViewProfile) {
		if n.Within(e.Selectors.CommentScope) {
			continue
		}
		m := e.Selectors.ViewProfileLabel.FindStringSubmatch(n.Attr("aria-label"))
		if m == nil {
			continue
		}
		if a.Name == "" {
			a.Name = strings.TrimSpace(m[1])
		}
		a.Headline = strings.TrimSpace(m[2])
		if u := e.profileURL(n.Attr("href")); u != "" {
			a.ProfileURL = u
		}
		return
	}
}

func (e *Extractor) authorFromCommentsLabel(doc postvault.Document, a *postvault.Author) {
	a.Name = labelMatch(doc.Query(e.Selectors.CommentsOn), e.Selectors.CommentsOnLabel)
}

func (e *Extractor) authorFromRepostsLabel(doc postvault.Document, a *postvault.Author) {
	a.Name = labelMatch(doc.Query(e.Selectors.RepostsOf), e.Selectors.RepostsOfLabel)
}

func (e *Extractor) content(doc postvault.Document) string {
	for _, selector := range e.Selectors.Content {
		for _, n := range doc.QueryAll(selector) {
			if e.inComment(n, e.Selectors.ContentScope...) {
				continue
			}
			if text := strings.TrimSpace(n.Text()); len([]rune(text)) > minContentLength {
				return text
			}
		}
	}
	return ""
}

func (e *Extractor) engagement(doc postvault.Document) postvault.Engagement {
	var eng postvault.Engagement
	for _, n := range doc.QueryAll(e.Selectors.Labelled) {
		label := n.Attr("aria-label")
		if v, ok := count(e.Selectors.ReactionsLabel.FindStringSubmatch(label)); ok {
			eng.Reactions = v
		}
		if v, ok := count(e.Selectors.CommentsLabel.FindStringSubmatch(label)); ok {
			eng.Comments = v
		}
		if v, ok := count(e.Selectors.RepostsLabel.FindStringSubmatch(label)); ok {
			eng.Reposts = v
		}
	}
	return eng
}

func (e *Extractor) sharedArticle(doc postvault.Document) *postvault.SharedArticle {
	n := doc.Query(e.Selectors.Article)
	if n == nil {
		return nil
	}
	m := e.Selectors.ArticleLabel.FindStringSubmatch(n.Attr("aria-label"))
	if m == nil {
		return nil
	}
	return &postvault.SharedArticle{
		Title:  strings.TrimSpace(m[1]),
		Domain: strings.TrimSpace(m[2]),
		URL:    n.Attr("href"),
	}
}

// commentAuthorStep recovers a comment's author from one source.
type commentAuthorStep func(n postvault.Node, c *postvault.Comment)

func (e *Extractor) comments(doc postvault.Document) []postvault.Comment {
	authorSteps := []commentAuthorStep{
		e.commentAuthorFromProfileLink,
		e.commentAuthorFromReply,
		e.commentAuthorFromReact,
	}

	comments := []postvault.Comment{}
	for _, n := range doc.QueryAll(e.Selectors.Comment) {
		c := postvault.Comment{ID: n.Attr("data-id")}

		for _, step := range authorSteps {
			if c.Author != "" {
				break
			}
			step(n, &c)
		}

		if t := n.Query(e.Selectors.CommentText); t != nil {
			c.Content = strings.TrimSpace(t.Text())
		}

		if r := n.Query(e.Selectors.CommentReactions); r != nil {
			if m := e.Selectors.CommentReactionsLabel.FindStringSubmatch(r.Attr("aria-label")); m != nil {
				c.Reactions, _ = strconv.Atoi(m[1])
			}
		}

		if c.Author == "" && c.Content == "" {
			continue
		}
		comments = append(comments, c)
	}
	return comments
}

func (e *Extractor) commentAuthorFromProfileLink(n postvault.Node, c *postvault.Comment) {
	link := n.Query(e.Selectors.ViewProfile)
	if link == nil {
		return
	}
	if m := e.Selectors.CommentViewLabel.FindStringSubmatch(link.Attr("aria-label")); m != nil {
		c.Author = strings.TrimSpace(m[1])
		c.AuthorHeadline = strings.TrimSpace(m[2])
	}
	c.AuthorProfileURL = e.profileURL(link.Attr("href"))
}

func (e *Extractor) commentAuthorFromReply(n postvault.Node, c *postvault.Comment) {
	c.Author = labelMatch(n.Query(e.Selectors.CommentReply), e.Selectors.CommentReplyLabel)
}

func (e *Extractor) commentAuthorFromReact(n postvault.Node, c *postvault.Comment) {
	c.Author = labelMatch(n.Query(e.Selectors.CommentReact), e.Selectors.CommentReactLabel)
}

func (e *Extractor) media(doc postvault.Document) []postvault.Media {
	media := []postvault.Media{}
	seen := make(map[string]bool)

	for _, img := range doc.QueryAll(e.Selectors.Images) {
		src := img.Attr("src")
		if src == "" || strings.Contains(src, e.Selectors.ProfilePhoto) || seen[src] {
			continue
		}
		seen[src] = true
		media = append(media, postvault.Media{Type: postvault.MediaImage, URL: src, Alt: img.Attr("alt")})
	}

	for _, source := range doc.QueryAll(e.Selectors.VideoSources) {
		src := source.Attr("src")
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		media = append(media, postvault.Media{Type: postvault.MediaVideo, URL: src})
	}

	for _, link := range doc.QueryAll(e.Selectors.DocumentLinks) {
		href := link.Attr("href")
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true
		media = append(media, postvault.Media{
			Type:  postvault.MediaDocument,
			URL:   href,
			Title: strings.TrimSpace(link.Text()),
		})
	}

	return media
}

func (e *Extractor) postedDate(doc postvault.Document) string {
	if t := doc.Query(e.Selectors.Time); t != nil {
		if dt := t.Attr("datetime"); dt != "" {
			return dt
		}
		if text := strings.TrimSpace(t.Text()); text != "" {
			return text
		}
	}
	for _, span := range doc.QueryAll(e.Selectors.Span) {
		if text := strings.TrimSpace(span.Text()); e.Selectors.RelativeDate.MatchString(text) {
			return text
		}
	}
	return ""
}

func (e *Extractor) links(doc postvault.Document) []postvault.Link {
	links := []postvault.Link{}
	seen := make(map[string]bool)
	for _, n := range doc.QueryAll(e.Selectors.OutboundLinks) {
		href := n.Attr("href")
		if href == "" || strings.Contains(href, e.Selectors.InternalDomain) || seen[href] {
			continue
		}
		if n.Within(e.Selectors.CommentScope) {
			continue
		}
		seen[href] = true
		links = append(links, postvault.Link{URL: href, Title: strings.TrimSpace(n.Text())})
	}
	return links
}

// inComment reports whether n sits inside a comment subtree or any of
// the extra scopes.
func (e *Extractor) inComment(n postvault.Node, extra ...string) bool {
	if n.Within(e.Selectors.CommentScope) {
		return true
	}
	for _, scope := range extra {
		if n.Within(scope) {
			return true
		}
	}
	return false
}

// profileURL normalizes a profile href to an absolute URL without a
// query string. Hrefs that do not point at a member profile yield "".
func (e *Extractor) profileURL(href string) string {
	if !strings.Contains(href, "/in/") {
		return ""
	}
	href, _, _ = strings.Cut(href, "?")
	if strings.HasPrefix(href, "http") {
		return href
	}
	return e.Selectors.Origin + href
}

// labelMatch returns the trimmed first group of re matched against the
// aria-label of n, or "" when n is nil or the label does not match.
func labelMatch(n postvault.Node, re *regexp.Regexp) string {
	if n == nil {
		return ""
	}
	m := re.FindStringSubmatch(n.Attr("aria-label"))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// count parses the thousands-separated number captured by a label match.
func count(m []string) (int, bool) {
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}
