package capture

import "regexp"

// Selectors holds the CSS selectors and aria-label patterns the
// extraction cascades match against. Each cascade tries its sources in
// the order listed here.
type Selectors struct {
	// Identifier fallback when the URL carries no post ID.
	ActivityURN string

	// Author, tier 1: post control menu label.
	ControlMenu      string
	ControlMenuLabel *regexp.Regexp

	// Author, tier 2: profile link label, also yields headline and URL.
	ViewProfile      string
	ViewProfileLabel *regexp.Regexp

	// Author, tiers 3 and 4: engagement labels naming the author.
	CommentsOn      string
	CommentsOnLabel *regexp.Regexp
	RepostsOf       string
	RepostsOfLabel  *regexp.Regexp

	// Content candidates, in priority order.
	Content []string

	// CommentScope matches the root of a comment subtree. ContentScope
	// adds the scopes excluded only from content.
	CommentScope string
	ContentScope []string

	// Engagement counters, matched against every aria-label.
	Labelled       string
	ReactionsLabel *regexp.Regexp
	CommentsLabel  *regexp.Regexp
	RepostsLabel   *regexp.Regexp

	// Shared article.
	Article      string
	ArticleLabel *regexp.Regexp

	// Comments and their fallbacks.
	Comment               string
	CommentViewLabel      *regexp.Regexp
	CommentReply          string
	CommentReplyLabel     *regexp.Regexp
	CommentReact          string
	CommentReactLabel     *regexp.Regexp
	CommentText           string
	CommentReactions      string
	CommentReactionsLabel *regexp.Regexp

	// Media.
	Images        string
	ProfilePhoto  string
	VideoSources  string
	DocumentLinks string

	// Posted date.
	Time         string
	Span         string
	RelativeDate *regexp.Regexp

	// Outbound links.
	OutboundLinks  string
	InternalDomain string

	// Origin prefixes relative profile links.
	Origin string
}

// DefaultSelectors matches the English-language LinkedIn post markup.
var DefaultSelectors = Selectors{
	ActivityURN: `[data-urn*="activity"]`,

	ControlMenu:      `[aria-label^="Open control menu for post by"]`,
	ControlMenuLabel: regexp.MustCompile(`Open control menu for post by (.+)`),

	ViewProfile:      `[aria-label^="View:"]`,
	ViewProfileLabel: regexp.MustCompile(`View:\s*([^•]+?)(?:\s*Premium)?\s*•\s*(?:Following\s*|1st\s*|2nd\s*|3rd\s*)?(.+)`),

	CommentsOn:      `[aria-label*="comments on"][aria-label*="post"]`,
	CommentsOnLabel: regexp.MustCompile(`comments? on (.+)'s post`),
	RepostsOf:       `[aria-label*="reposts of"][aria-label*="post"]`,
	RepostsOfLabel:  regexp.MustCompile(`reposts? of (.+)'s post`),

	Content: []string{
		".feed-shared-update-v2__description",
		".feed-shared-text",
		".update-components-text",
	},

	CommentScope: `[data-id*="comment"]`,
	ContentScope: []string{".comments-comment-item"},

	Labelled:       "[aria-label]",
	ReactionsLabel: regexp.MustCompile(`(?i)^(\d[\d,]*)\s*reactions?$`),
	CommentsLabel:  regexp.MustCompile(`(?i)^(\d[\d,]*)\s*comments?`),
	RepostsLabel:   regexp.MustCompile(`(?i)^(\d[\d,]*)\s*reposts?`),

	Article:      `[aria-label^="Open article:"]`,
	ArticleLabel: regexp.MustCompile(`Open article:\s*(.+?)(?:\s+by\s+([^,]+))?(?:,\s*graphic)?$`),

	Comment:               `[data-id*="urn:li:comment"]`,
	CommentViewLabel:      regexp.MustCompile(`View:\s*([^•]+?)(?:\s*Premium)?\s*•\s*(?:\d+(?:st|nd|rd|th)\s*)?(.+)`),
	CommentReply:          `[aria-label*="Reply to"][aria-label*="comment"]`,
	CommentReplyLabel:     regexp.MustCompile(`Reply to (.+)'s comment`),
	CommentReact:          `[aria-label*="React"][aria-label*="comment"]`,
	CommentReactLabel:     regexp.MustCompile(`React \w+ to (.+)'s comment`),
	CommentText:           ".update-components-text",
	CommentReactions:      `[aria-label*="Reaction"][aria-label*="comment"]`,
	CommentReactionsLabel: regexp.MustCompile(`(?i)(\d+)\s*Reaction`),

	Images:        `img[src*="feedshare-shrink"], img[src*="dms/image"]`,
	ProfilePhoto:  "profile-displayphoto",
	VideoSources:  "video source",
	DocumentLinks: `a[href*="dms/document"]`,

	Time:         "time",
	Span:         "span",
	RelativeDate: regexp.MustCompile(`^\d+[mwydh]o?$`),

	OutboundLinks:  `a[target="_blank"][href^="http"]`,
	InternalDomain: "linkedin.com",

	Origin: "https://www.linkedin.com",
}
