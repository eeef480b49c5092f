package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/capture"
	"github.com/fwojciec/postvault/etree"
	"github.com/fwojciec/postvault/export"
	"github.com/fwojciec/postvault/gemini"
	"github.com/fwojciec/postvault/htmltomarkdown"
	pvhttp "github.com/fwojciec/postvault/http"
	"github.com/fwojciec/postvault/qdrant"
	"github.com/fwojciec/postvault/readability"
	"github.com/fwojciec/postvault/rod"
	pvslog "github.com/fwojciec/postvault/slog"
	"github.com/fwojciec/postvault/sqlite"
	"github.com/fwojciec/postvault/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	Logger *slog.Logger

	// Services for end-to-end testing.
	PostService    postvault.PostService
	SettingService postvault.SettingService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postvault"),
		kong.Description("Save LinkedIn posts locally and export them as JSON, Markdown, RSS and embeddings."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postvault --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	m.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = m.Logger

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set POSTVAULT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.PostService = pvslog.NewLoggingPostService(sqlite.NewPostService(m.DB), m.Logger)
	m.SettingService = sqlite.NewSettingService(m.DB)
	deps.DB = m.DB
	deps.Posts = m.PostService
	deps.Settings = m.SettingService

	switch cmd {
	case "capture", "mark":
		headful := cli.Capture.Headful || cli.Mark.Headful
		opts := []rod.ManagerOption{rod.WithHeadless(!headful)}
		if cli.Profile != "" {
			opts = append(opts, rod.WithUserDataDir(cli.Profile))
		}
		browser, err := rod.NewBrowser(opts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer browser.Close()
		deps.Browser = rod.NewLoggingBrowser(browser, m.Logger)

		if cmd == "mark" {
			deps.Marker = capture.NewMarker(m.PostService)
			break
		}

		var fetcher postvault.Fetcher = pvhttp.NewFetcher()
		if cli.Capture.RenderArticles {
			fetcher = rod.NewFetcher(browser)
		}
		defer fetcher.Close()
		deps.Capturer = m.newCapturer(fetcher, true)

	case "import":
		fetcher := pvhttp.NewFetcher()
		defer fetcher.Close()
		deps.Capturer = m.newCapturer(fetcher, false)

	case "stats":
		if cli.Stats.Tokens {
			tokens, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Tokens = tokens
		}

	case "export":
		exporter := &export.Exporter{
			Feed:        etree.NewFeedBuilder(),
			Logger:      m.Logger,
			Concurrency: cli.Export.Concurrency,
		}

		if cli.Export.Embeddings {
			settings, err := resolveEmbedding(ctx, m.SettingService, cli.Provider, cli.Model, cli.APIKey)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Run 'postvault config set apiKey=<key>' or set POSTVAULT_API_KEY")
				return err
			}
			embedder, err := newEmbedder(ctx, settings)
			if err != nil {
				return err
			}
			exporter.Embedder = pvslog.NewLoggingEmbedder(embedder, m.Logger)
			exporter.Provider = settings.Provider
			exporter.Model = settings.Model

			if cli.Export.QdrantAddr != "" {
				sink, err := qdrant.NewVectorSink(cli.Export.QdrantAddr, cli.Export.QdrantCollection)
				if err != nil {
					return fmt.Errorf("failed to connect to qdrant: %w", err)
				}
				defer sink.Close()
				exporter.Sink = sink
			}
		}

		deps.Exporter = exporter
	}

	return kongCtx.Run(deps)
}

func (m *Main) newCapturer(fetcher postvault.Fetcher, expand bool) *capture.Capturer {
	c := &capture.Capturer{
		Posts:     m.PostService,
		Extractor: capture.NewExtractor(),
		Logger:    m.Logger,
		Articles: &capture.ArticleReader{
			Fetcher: pvslog.NewLoggingFetcher(fetcher, m.Logger),
			Extractors: []postvault.Extractor{
				trafilatura.NewExtractor(),
				readability.NewExtractor(),
			},
			Converter: htmltomarkdown.NewConverter(),
		},
	}
	if expand {
		c.Expander = capture.NewExpander(m.Logger)
	}
	return c
}

// resolveEmbedding loads stored embedding settings and applies the
// non-empty overrides. Changing the provider resets the model to that
// provider's default unless a model is also given.
func resolveEmbedding(ctx context.Context, settings postvault.SettingService, provider, model, apiKey string) (*postvault.EmbeddingSettings, error) {
	s, err := postvault.ResolveEmbeddingSettings(ctx, settings)
	if err != nil {
		return nil, err
	}

	if provider != "" && provider != s.Provider {
		s.Provider = provider
		s.Model = ""
		if p, ok := postvault.Providers[provider]; ok {
			s.Model = p.DefaultModel
		}
	}
	if model != "" {
		s.Model = model
	}
	if apiKey != "" {
		s.APIKey = apiKey
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func newEmbedder(ctx context.Context, s *postvault.EmbeddingSettings) (postvault.Embedder, error) {
	switch s.Provider {
	case postvault.ProviderGemini:
		client, err := gemini.NewClient(ctx, s.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewEmbedder(client), nil
	case postvault.ProviderOpenAI:
		return pvhttp.NewOpenAIEmbedder(s.APIKey), nil
	case postvault.ProviderVoyage:
		return pvhttp.NewVoyageEmbedder(s.APIKey), nil
	}
	return nil, postvault.Errorf(postvault.EINVALID, "unknown embedding provider %q", s.Provider)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "postvault.db"
	}
	dir := filepath.Join(home, ".postvault")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "postvault.db")
}
