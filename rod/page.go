package rod

import (
	"context"
	"strings"

	"github.com/fwojciec/postvault"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ postvault.Page    = (*Page)(nil)
	_ postvault.Watcher = (*Page)(nil)
	_ postvault.Node    = (*Node)(nil)
)

// Page exposes a loaded browser tab as a postvault.Document.
// Lookups never wait for elements to appear; a missing element reads as nil.
type Page struct {
	page *rod.Page
}

// URL returns the current address of the tab.
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Query returns the first element matching selector.
func (p *Page) Query(selector string) postvault.Node {
	els, err := p.page.Elements(selector)
	if err != nil || len(els) == 0 {
		return nil
	}
	return &Node{el: els[0]}
}

// QueryAll returns every element matching selector.
func (p *Page) QueryAll(selector string) []postvault.Node {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil
	}
	return wrap(els)
}

// Watch calls fn whenever nodes are inserted into the document.
// It blocks until ctx is done.
func (p *Page) Watch(ctx context.Context, fn func()) error {
	page := p.page.Context(ctx)

	if err := (proto.DOMEnable{}).Call(page); err != nil {
		return err
	}

	// Chrome only reports mutations below nodes the client has requested,
	// so pull the whole tree once.
	depth := -1
	if _, err := (proto.DOMGetDocument{Depth: &depth}).Call(page); err != nil {
		return err
	}

	wait := page.EachEvent(func(e *proto.DOMChildNodeInserted) {
		fn()
	}, func(e *proto.DOMDocumentUpdated) {
		// The tree was replaced; request it again so inserts keep flowing.
		_, _ = (proto.DOMGetDocument{Depth: &depth}).Call(page)
		fn()
	})
	wait()

	return ctx.Err()
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// Node is a live DOM element.
type Node struct {
	el *rod.Element
}

// Attr returns the attribute value, or "" when unset.
func (n *Node) Attr(name string) string {
	v, err := n.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

// Text returns the element's rendered text.
func (n *Node) Text() string {
	text, err := n.el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Query returns the first descendant matching selector.
func (n *Node) Query(selector string) postvault.Node {
	els, err := n.el.Elements(selector)
	if err != nil || len(els) == 0 {
		return nil
	}
	return &Node{el: els[0]}
}

// QueryAll returns every descendant matching selector.
func (n *Node) QueryAll(selector string) []postvault.Node {
	els, err := n.el.Elements(selector)
	if err != nil {
		return nil
	}
	return wrap(els)
}

// Within reports whether the element or an ancestor matches selector.
func (n *Node) Within(selector string) bool {
	res, err := n.el.Eval(`(s) => this.closest(s) !== null`, selector)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

// Visible reports whether the element is rendered on screen.
func (n *Node) Visible() bool {
	ok, err := n.el.Visible()
	return err == nil && ok
}

// Enabled reports whether the element accepts clicks.
func (n *Node) Enabled() bool {
	disabled, err := n.el.Property("disabled")
	if err != nil {
		return false
	}
	return !disabled.Bool() && n.Attr("aria-disabled") != "true"
}

// Click scrolls the element into view and clicks it.
func (n *Node) Click() error {
	return n.el.Click(proto.InputMouseButtonLeft, 1)
}

func wrap(els rod.Elements) []postvault.Node {
	nodes := make([]postvault.Node, len(els))
	for i, el := range els {
		nodes[i] = &Node{el: el}
	}
	return nodes
}
