// Package postvault captures social-media posts from rendered pages,
// stores them locally, and exports them as JSON, Markdown, RSS and
// vector embeddings.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, goquery/).
package postvault
