package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/capture"
	"github.com/fwojciec/postvault/export"
	"github.com/fwojciec/postvault/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Posts    postvault.PostService
	Settings postvault.SettingService
	Browser  postvault.Browser
	Capturer *capture.Capturer
	Marker   *capture.Marker
	Exporter *export.Exporter
	Tokens   postvault.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB       string `name:"db" env:"POSTVAULT_DB" help:"Database path"`
	Profile  string `env:"POSTVAULT_PROFILE" help:"Chrome profile directory holding the LinkedIn session"`
	Provider string `env:"POSTVAULT_PROVIDER" help:"Embedding provider (gemini, openai, voyage)"`
	Model    string `env:"POSTVAULT_MODEL" help:"Embedding model"`
	APIKey   string `name:"api-key" env:"POSTVAULT_API_KEY" help:"Embedding API key"`
	Verbose  bool   `short:"v" help:"Log every operation to stderr"`

	Capture CaptureCmd `cmd:"" help:"Open a post in Chrome and save it"`
	Import  ImportCmd  `cmd:"" help:"Save a post from a saved HTML page"`
	List    ListCmd    `cmd:"" help:"List saved posts"`
	Show    ShowCmd    `cmd:"" help:"Show a saved post"`
	Stats   StatsCmd   `cmd:"" help:"Summarize saved posts"`
	Export  ExportCmd  `cmd:"" help:"Export saved posts to a directory"`
	Clear   ClearCmd   `cmd:"" help:"Delete all saved posts"`
	Mark    MarkCmd    `cmd:"" help:"Report which posts on a saved-posts list are captured"`
	Config  ConfigCmd  `cmd:"" help:"Manage stored settings"`
}

// CaptureCmd is the "capture" subcommand.
type CaptureCmd struct {
	URL            string `arg:"" help:"Post URL"`
	NoComments     bool   `help:"Skip comment expansion and extraction"`
	Snapshot       bool   `help:"Store an excerpt of the shared article"`
	RenderArticles bool   `help:"Fetch shared articles through the browser"`
	Headful        bool   `help:"Show the browser window"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File       string `arg:"" type:"existingfile" help:"Saved HTML page"`
	URL        string `required:"" help:"URL the page was saved from"`
	NoComments bool   `help:"Skip comment extraction"`
	Snapshot   bool   `help:"Store an excerpt of the shared article"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Author string `help:"Only posts by this author"`
	Limit  int    `short:"n" help:"Maximum number of posts"`
	Offset int    `help:"Number of posts to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID       string `arg:"" help:"Post ID"`
	Markdown bool   `short:"m" help:"Print as Markdown instead of JSON"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	Tokens bool `help:"Count Markdown tokens across all posts"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir              string `arg:"" help:"Output directory (replaced atomically)"`
	Embeddings       bool   `help:"Generate embeddings.json"`
	QdrantAddr       string `name:"qdrant-addr" help:"Also upsert embeddings into Qdrant at host:port"`
	QdrantCollection string `name:"qdrant-collection" default:"postvault" help:"Qdrant collection name"`
	Concurrency      int    `short:"c" default:"4" help:"Concurrent embedding requests"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm deletion"`
}

// MarkCmd is the "mark" subcommand.
type MarkCmd struct {
	URL     string `arg:"" optional:"" help:"Saved-posts list URL (defaults to your saved posts)"`
	Watch   bool   `short:"w" help:"Keep marking as the list grows"`
	Headful bool   `help:"Show the browser window"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Get   ConfigGetCmd   `cmd:"" help:"Print stored settings"`
	Set   ConfigSetCmd   `cmd:"" help:"Store settings given as key=value"`
	Unset ConfigUnsetCmd `cmd:"" help:"Remove stored settings"`
}

// ConfigGetCmd is the "config get" subcommand.
type ConfigGetCmd struct {
	Keys []string `arg:"" optional:"" help:"Setting keys (all when omitted)"`
}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Pairs []string `arg:"" help:"key=value pairs"`
}

// ConfigUnsetCmd is the "config unset" subcommand.
type ConfigUnsetCmd struct {
	Keys []string `arg:"" help:"Setting keys"`
}
