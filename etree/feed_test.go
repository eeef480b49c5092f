package etree_test

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/postvault"
	pvetree "github.com/fwojciec/postvault/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedBuilder_Build(t *testing.T) {
	t.Parallel()

	built := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	posts := []*postvault.Post{
		{
			ID:         "111",
			URL:        "https://www.linkedin.com/feed/update/urn:li:activity:111/",
			CapturedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			Author:     postvault.Author{Name: "Ada Lovelace"},
			Content:    "Notes on the engine & its <future> #Computing #History",
			Media: []postvault.Media{
				{Type: postvault.MediaVideo, URL: "https://media.example.com/v.mp4"},
				{Type: postvault.MediaImage, URL: "https://media.example.com/a.jpg"},
			},
		},
		{ID: "222", URL: "https://www.linkedin.com/posts/grace_x-activity-222"},
	}

	builder := pvetree.NewFeedBuilder()
	builder.Now = func() time.Time { return built }

	out, err := builder.Build(posts)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	rss := doc.SelectElement("rss")
	require.NotNil(t, rss)
	assert.Equal(t, "2.0", rss.SelectAttrValue("version", ""))

	channel := rss.SelectElement("channel")
	require.NotNil(t, channel)
	assert.Equal(t, pvetree.DefaultTitle, channel.SelectElement("title").Text())
	assert.Equal(t, "Thu, 01 Feb 2024 12:00:00 +0000", channel.SelectElement("lastBuildDate").Text())

	items := channel.SelectElements("item")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "111", first.SelectElement("guid").Text())
	assert.Equal(t, "false", first.SelectElement("guid").SelectAttrValue("isPermaLink", ""))
	assert.Equal(t, "Notes on the engine & its <future> #Computing #History", first.SelectElement("title").Text())
	assert.Equal(t, "Mon, 15 Jan 2024 10:30:00 +0000", first.SelectElement("pubDate").Text())
	assert.Equal(t, "Ada Lovelace", first.SelectElement("author").Text())
	assert.Contains(t, first.SelectElement("content:encoded").Text(), `post_id: "111"`)

	var categories []string
	for _, c := range first.SelectElements("category") {
		categories = append(categories, c.Text())
	}
	assert.Equal(t, []string{"computing", "history"}, categories)

	enclosure := first.SelectElement("enclosure")
	require.NotNil(t, enclosure)
	assert.Equal(t, "https://media.example.com/a.jpg", enclosure.SelectAttrValue("url", ""))

	second := items[1]
	assert.Equal(t, "Untitled", second.SelectElement("title").Text())
	assert.Equal(t, "No description available", second.SelectElement("description").Text())
	assert.Nil(t, second.SelectElement("author"))
	assert.Nil(t, second.SelectElement("pubDate"))
}

func TestFeedBuilder_Build_Empty(t *testing.T) {
	t.Parallel()

	out, err := pvetree.NewFeedBuilder().Build(nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(out), "<channel>")
	assert.NotContains(t, string(out), "<item>")
}

func TestFeedBuilder_Build_ContentWithCDataTerminator(t *testing.T) {
	t.Parallel()

	post := &postvault.Post{
		ID:      "333",
		Content: "Go tip: m[k[i]]>0 is valid code, try it",
	}

	out, err := pvetree.NewFeedBuilder().Build([]*postvault.Post{post})
	require.NoError(t, err)

	var feed struct {
		Items []struct {
			Encoded string `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
		} `xml:"channel>item"`
	}
	require.NoError(t, xml.Unmarshal(out, &feed))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, postvault.FormatPost(post), feed.Items[0].Encoded)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	item := doc.SelectElement("rss").SelectElement("channel").SelectElement("item")
	require.NotNil(t, item)
	encoded := item.SelectElement("content:encoded")
	require.NotNil(t, encoded)
	assert.Equal(t, postvault.FormatPost(post), encoded.Text())
}
