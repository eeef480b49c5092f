package postvault

import "context"

// Node is a single element of a rendered page.
// Lookups that find nothing return nil (Query) or an empty slice
// (QueryAll); attribute and text reads of missing values return "".
type Node interface {
	// Attr returns the value of the named attribute, or "" if unset.
	Attr(name string) string

	// Text returns the rendered text of the element and its descendants.
	Text() string

	// Query returns the first descendant matching the CSS selector.
	Query(selector string) Node

	// QueryAll returns every descendant matching the CSS selector.
	QueryAll(selector string) []Node

	// Within reports whether the element or one of its ancestors
	// matches the CSS selector.
	Within(selector string) bool

	// Visible reports whether the element is rendered.
	Visible() bool

	// Enabled reports whether the element accepts input.
	Enabled() bool

	// Click activates the element.
	Click() error
}

// Document is a queryable view of a rendered page.
type Document interface {
	// URL returns the address the page was loaded from.
	URL() string

	// Query returns the first element matching the CSS selector.
	Query(selector string) Node

	// QueryAll returns every element matching the CSS selector.
	QueryAll(selector string) []Node
}

// Watcher is implemented by documents that can report DOM mutations.
type Watcher interface {
	// Watch calls fn after the document's structure changes.
	// It blocks until ctx is done.
	Watch(ctx context.Context, fn func()) error
}

// Page is a Document backed by a live browser tab.
type Page interface {
	Document

	// Close releases the tab.
	Close() error
}

// Browser opens live pages.
type Browser interface {
	// Open navigates a new tab to url and waits for it to load.
	Open(ctx context.Context, url string) (Page, error)

	// Close releases the browser.
	Close() error
}
