// Package goquery implements postvault.Document over static HTML.
// It is used to extract posts from saved pages without a browser.
package goquery

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postvault"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Compile-time interface verification.
var (
	_ postvault.Document = (*Document)(nil)
	_ postvault.Node     = (*Node)(nil)
)

// Document is a parsed, static HTML page.
type Document struct {
	doc *goquery.Document
	url string
}

// NewDocument parses html loaded from url.
func NewDocument(htmlContent, url string) (*Document, error) {
	return NewDocumentFromReader(strings.NewReader(htmlContent), url)
}

// NewDocumentFromReader parses HTML read from r.
func NewDocumentFromReader(r io.Reader, url string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, postvault.Errorf(postvault.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc, url: url}, nil
}

// URL returns the address the page was loaded from.
func (d *Document) URL() string {
	return d.url
}

// Query returns the first element matching selector, or nil.
func (d *Document) Query(selector string) postvault.Node {
	return first(d.doc.Find(selector))
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []postvault.Node {
	return all(d.doc.Find(selector))
}

// Node is a single element of a static document.
type Node struct {
	sel *goquery.Selection
}

func first(sel *goquery.Selection) postvault.Node {
	if sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel.First()}
}

func all(sel *goquery.Selection) []postvault.Node {
	nodes := make([]postvault.Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

func (n *Node) Attr(name string) string {
	return n.sel.AttrOr(name, "")
}

// Text approximates the browser's innerText: whitespace is collapsed,
// line breaks and block elements start new lines, and script content
// is skipped.
func (n *Node) Text() string {
	var b strings.Builder
	for _, node := range n.sel.Nodes {
		writeText(&b, node)
	}
	return normalizeText(b.String())
}

func (n *Node) Query(selector string) postvault.Node {
	return first(n.sel.Find(selector))
}

func (n *Node) QueryAll(selector string) []postvault.Node {
	return all(n.sel.Find(selector))
}

func (n *Node) Within(selector string) bool {
	return n.sel.Closest(selector).Length() > 0
}

// Visible reports false when the element or an ancestor carries the
// hidden attribute or an inline style that hides it.
func (n *Node) Visible() bool {
	for node := n.sel.Get(0); node != nil; node = node.Parent {
		if node.Type == html.ElementNode && hidden(node) {
			return false
		}
	}
	return true
}

func (n *Node) Enabled() bool {
	_, disabled := n.sel.Attr("disabled")
	return !disabled && n.sel.AttrOr("aria-disabled", "") != "true"
}

// Click always fails: a static document has nothing to run.
func (n *Node) Click() error {
	return postvault.Errorf(postvault.EINVALID, "static document cannot be clicked")
}

func hidden(node *html.Node) bool {
	for _, a := range node.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// softBreak marks a block boundary. Adjacent boundaries collapse into
// one line break.
const softBreak = '\x00'

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Fieldset: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Tr: true, atom.Ul: true,
}

var (
	whitespaceRe = regexp.MustCompile(`[ \t\n\r\f]+`)
	softRunRe    = regexp.MustCompile(`[ \x00]*\x00[ \x00]*`)
	spacesRe     = regexp.MustCompile(` {2,}`)
)

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(whitespaceRe.ReplaceAllString(n.Data, " "))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		}
		if hidden(n) {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte(softBreak)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte(softBreak)
	}
}

func normalizeText(s string) string {
	s = softRunRe.ReplaceAllString(s, string(softBreak))
	s = strings.ReplaceAll(s, "\n"+string(softBreak), "\n")
	s = strings.ReplaceAll(s, string(softBreak)+"\n", "\n")
	s = strings.ReplaceAll(s, string(softBreak), "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
