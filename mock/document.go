package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var (
	_ postvault.Document = (*Document)(nil)
	_ postvault.Node     = (*Node)(nil)
	_ postvault.Watcher  = (*Document)(nil)
)

// Document is a mock implementation of postvault.Document.
type Document struct {
	URLFn      func() string
	QueryFn    func(selector string) postvault.Node
	QueryAllFn func(selector string) []postvault.Node
	WatchFn    func(ctx context.Context, fn func()) error
}

func (d *Document) URL() string {
	return d.URLFn()
}

func (d *Document) Query(selector string) postvault.Node {
	return d.QueryFn(selector)
}

func (d *Document) QueryAll(selector string) []postvault.Node {
	return d.QueryAllFn(selector)
}

func (d *Document) Watch(ctx context.Context, fn func()) error {
	return d.WatchFn(ctx, fn)
}

// Node is a mock implementation of postvault.Node.
type Node struct {
	AttrFn     func(name string) string
	TextFn     func() string
	QueryFn    func(selector string) postvault.Node
	QueryAllFn func(selector string) []postvault.Node
	WithinFn   func(selector string) bool
	VisibleFn  func() bool
	EnabledFn  func() bool
	ClickFn    func() error
}

func (n *Node) Attr(name string) string {
	return n.AttrFn(name)
}

func (n *Node) Text() string {
	return n.TextFn()
}

func (n *Node) Query(selector string) postvault.Node {
	return n.QueryFn(selector)
}

func (n *Node) QueryAll(selector string) []postvault.Node {
	return n.QueryAllFn(selector)
}

func (n *Node) Within(selector string) bool {
	return n.WithinFn(selector)
}

func (n *Node) Visible() bool {
	return n.VisibleFn()
}

func (n *Node) Enabled() bool {
	return n.EnabledFn()
}

func (n *Node) Click() error {
	return n.ClickFn()
}
