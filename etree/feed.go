// Package etree renders captured posts as an RSS 2.0 feed using beevik/etree.
package etree

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/postvault"
)

// Default channel metadata.
const (
	DefaultTitle       = "Saved posts"
	DefaultLink        = "https://www.linkedin.com/my-items/saved-posts/"
	DefaultDescription = "Posts captured with postvault"
	Generator          = "postvault"
)

const contentNS = "http://purl.org/rss/1.0/modules/content/"

var _ postvault.FeedBuilder = (*FeedBuilder)(nil)

// FeedBuilder renders posts as an RSS 2.0 document.
type FeedBuilder struct {
	Title       string
	Link        string
	Description string

	// Now returns the channel build time. Defaults to time.Now.
	Now func() time.Time
}

// NewFeedBuilder returns a FeedBuilder with the default channel metadata.
func NewFeedBuilder() *FeedBuilder {
	return &FeedBuilder{
		Title:       DefaultTitle,
		Link:        DefaultLink,
		Description: DefaultDescription,
	}
}

// Build renders posts, newest capture first as given, into an indented
// RSS document.
func (b *FeedBuilder) Build(posts []*postvault.Post) ([]byte, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:content", contentNS)

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(b.Title)
	channel.CreateElement("link").SetText(b.Link)
	channel.CreateElement("description").SetText(b.Description)
	channel.CreateElement("lastBuildDate").SetText(now().UTC().Format(time.RFC1123Z))
	channel.CreateElement("generator").SetText(Generator)

	for _, p := range posts {
		writeItem(channel, p)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("render feed: %w", err)
	}
	return out, nil
}

func writeItem(channel *etree.Element, p *postvault.Post) {
	item := channel.CreateElement("item")

	guid := item.CreateElement("guid")
	guid.CreateAttr("isPermaLink", "false")
	guid.SetText(p.ID)

	item.CreateElement("title").SetText(postvault.Title(p))
	if p.URL != "" {
		item.CreateElement("link").SetText(p.URL)
	}

	description := p.Content
	if description == "" {
		description = "No description available"
	}
	item.CreateElement("description").SetText(description)

	writeCData(item.CreateElement("content:encoded"), postvault.FormatPost(p))

	if !p.CapturedAt.IsZero() {
		item.CreateElement("pubDate").SetText(p.CapturedAt.UTC().Format(time.RFC1123Z))
	}
	if p.Author.Name != "" {
		item.CreateElement("author").SetText(p.Author.Name)
	}
	for _, tag := range postvault.ExtractHashtags(p.Content) {
		item.CreateElement("category").SetText(tag)
	}
	for _, m := range p.Media {
		if m.Type != postvault.MediaImage {
			continue
		}
		enc := item.CreateElement("enclosure")
		enc.CreateAttr("url", m.URL)
		enc.CreateAttr("length", "0")
		enc.CreateAttr("type", "image/jpeg")
		break
	}
}

// writeCData stores text as CDATA sections. A CDATA section cannot contain
// "]]>", so the text is split between "]]" and ">" across adjacent sections.
func writeCData(e *etree.Element, text string) {
	parts := strings.Split(text, "]]>")
	for i, part := range parts {
		if i > 0 {
			part = ">" + part
		}
		if i < len(parts)-1 {
			part += "]]"
		}
		e.CreateCData(part)
	}
}
