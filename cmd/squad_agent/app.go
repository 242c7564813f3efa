package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/catalog"
	"github.com/jonathan/squad-builder/internal/config"
	"github.com/jonathan/squad-builder/internal/db"
	"github.com/jonathan/squad-builder/internal/llm"
	"github.com/jonathan/squad-builder/internal/logging"
	"github.com/jonathan/squad-builder/internal/metrics"
	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/search"
	"github.com/jonathan/squad-builder/internal/selection"
	"github.com/jonathan/squad-builder/internal/shortlist"
	"github.com/jonathan/squad-builder/internal/tactics"
)

// app holds the loaded configuration and everything opened from it.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	closers []func()
}

// loadApp reads configuration and sets up logging.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) onClose(f func()) {
	a.closers = append(a.closers, f)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

// catalogLoader returns the configured player source, cached for the process lifetime.
func (a *app) catalogLoader(ctx context.Context) (*catalog.Cached, error) {
	var source catalog.Loader
	switch a.cfg.Catalog.Source {
	case "postgres":
		database, err := a.database(ctx)
		if err != nil {
			return nil, err
		}
		source = catalog.PostgresLoader{Store: database, Version: a.cfg.Catalog.Version}
	default:
		source = catalog.CSVLoader{Path: a.cfg.Catalog.CSVPath, Version: a.cfg.Catalog.Version}
	}
	return catalog.NewCached(source, a.logger.Named("catalog")), nil
}

// database connects to PostgreSQL and ensures the schema exists.
func (a *app) database(ctx context.Context) (*db.DB, error) {
	if a.cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	database, err := db.Connect(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	a.onClose(database.Close)
	if err := database.Migrate(ctx); err != nil {
		return nil, err
	}
	return database, nil
}

// llmClient connects to the configured model provider.
func (a *app) llmClient(ctx context.Context) (*llm.GeminiClient, error) {
	client, err := llm.NewClient(ctx, a.cfg.LLM.ModelConfig(), a.cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.onClose(func() { _ = client.Close() })
	return client, nil
}

// vectorIndex opens the SQLite embedding store and wraps it in an index.
func (a *app) vectorIndex(ctx context.Context, embedder search.Embedder) (*search.VectorIndex, error) {
	path := a.cfg.Search.IndexPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	store, err := search.OpenSQLiteStore(ctx, path)
	if err != nil {
		return nil, err
	}
	a.onClose(func() { _ = store.Close() })

	return search.NewVectorIndex(embedder,
		search.WithStore(store),
		search.WithBatching(a.cfg.Search.BatchSize, a.cfg.Search.Concurrency),
		search.WithLogger(a.logger.Named("search")),
	), nil
}

// engine wires the full build pipeline.
func (a *app) engine(ctx context.Context, m *metrics.Manager) (*pipeline.Engine, error) {
	players, err := a.catalogLoader(ctx)
	if err != nil {
		return nil, err
	}
	client, err := a.llmClient(ctx)
	if err != nil {
		return nil, err
	}
	index, err := a.vectorIndex(ctx, client.Embedder())
	if err != nil {
		return nil, err
	}

	lazy := search.NewLazyIndex(index, players.Load, a.logger.Named("search"))
	aggregator := shortlist.NewAggregator(lazy, a.logger.Named("shortlist"))

	selectorOpts := []selection.Option{
		selection.WithMaxAttempts(a.cfg.Engine.MaxAttempts),
		selection.WithLogger(a.logger.Named("selection")),
	}
	engineOpts := []pipeline.Option{
		pipeline.WithLogger(a.logger.Named("pipeline")),
		pipeline.WithTactics(tactics.NewInferrer(client, a.logger.Named("tactics"))),
		pipeline.WithCatalog(players),
		pipeline.WithDefaults(a.cfg.Engine.Limits(), a.cfg.Engine.MaxPlayers),
	}
	if m != nil {
		selectorOpts = append(selectorOpts, selection.WithObserver(m))
		engineOpts = append(engineOpts, pipeline.WithRecorder(m), pipeline.WithCache(a.cfg.Cache.Capacity, m))
	} else {
		engineOpts = append(engineOpts, pipeline.WithCache(a.cfg.Cache.Capacity, nil))
	}

	selector := selection.NewAdapter(selection.NewLLMOracle(client), selectorOpts...)
	return pipeline.New(aggregator, selector, engineOpts...), nil
}
