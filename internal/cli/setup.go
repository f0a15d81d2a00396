// Package cli wires configuration into a ready analysis instance for the
// command-line tools.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/revlens/revlens/internal/gplay"
	"github.com/revlens/revlens/internal/llm"
	"github.com/revlens/revlens/pkg/revlens"
	"github.com/revlens/revlens/pkg/revlens/cache"
	"github.com/revlens/revlens/pkg/revlens/compare"
	"github.com/revlens/revlens/pkg/revlens/config"
	"github.com/revlens/revlens/pkg/revlens/narrative"
	"github.com/revlens/revlens/pkg/revlens/snapshot"
	"github.com/revlens/revlens/pkg/revlens/store"
	"github.com/revlens/revlens/pkg/revlens/store/sqlite"
)

// App bundles the wired instance with the pieces the commands use directly.
type App struct {
	Revlens   *revlens.Revlens
	Config    *config.AppConfig
	Snapshots *snapshot.Store
	Logger    *slog.Logger
}

// Build loads .env and the YAML config, then assembles the full pipeline.
// The OPENAI_API_KEY variable being absent disables narratives rather than
// failing: statistical analysis works offline.
func Build(configPath string) (*App, error) {
	// Missing .env is normal; real environments export variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Logging.Level)

	comps, err := config.BuildComponents(cfg)
	if err != nil {
		return nil, fmt.Errorf("build components: %w", err)
	}

	snapshots := snapshot.NewStore(cfg.Snapshot.Dir)

	var archive store.Store
	if cfg.Archive.Path != "" {
		archive, err = sqlite.Open(context.Background(), cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
	}

	provider := &gplay.Client{
		BaseURL: cfg.Fetch.Endpoint,
		Lang:    "en",
		Country: "us",
	}

	summarizer, err := buildSummarizer(cfg, logger)
	if err != nil {
		return nil, err
	}

	engine := compare.NewEngine(comps.Extractor, comps.Tagger)
	engine.TopicCount = cfg.Analysis.TopicCount

	rl := revlens.New(revlens.Options{
		Provider:   provider,
		Snapshots:  snapshots,
		Archive:    archive,
		Scorer:     comps.Scorer,
		Engine:     engine,
		Versions:   comps.VersionExtractor,
		Summarizer: summarizer,
		Logger:     logger,
		FetchCount: cfg.Fetch.Count,
	})

	return &App{
		Revlens:   rl,
		Config:    cfg,
		Snapshots: snapshots,
		Logger:    logger,
	}, nil
}

func buildSummarizer(cfg *config.AppConfig, logger *slog.Logger) (*narrative.Summarizer, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Info("OPENAI_API_KEY not set, narratives disabled")
		return nil, nil
	}

	gen, err := llm.New(llm.Options{
		APIKey:     apiKey,
		BaseURL:    os.Getenv("OPENAI_BASE_URL"),
		Model:      cfg.LLM.Model,
		Timeout:    time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.LLM.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("build llm client: %w", err)
	}

	summaries := cache.NewStore(cfg.Cache.Dir)

	builder := narrative.NewPromptBuilder()
	builder.TopicDeltaThreshold = cfg.Analysis.TopicDeltaThreshold
	builder.ThemeDeltaThreshold = cfg.Analysis.ThemeDeltaThreshold

	s := narrative.NewSummarizer(gen, builder, summaries, logger)
	s.MaxTokens = cfg.LLM.MaxTokens
	s.Temperature = cfg.LLM.Temperature
	return s, nil
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
