package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/types"
)

// DefaultVersion is the dataset edition kept when ingesting.
const DefaultVersion = 24

// Loader returns the full cleaned catalog.
type Loader interface {
	Load(ctx context.Context) ([]types.Player, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) ([]types.Player, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]types.Player, error) {
	return f(ctx)
}

// Cached loads from its source once. A failed load is retried on the next call.
type Cached struct {
	source Loader
	logger *zap.Logger

	mu      sync.Mutex
	loaded  bool
	players []types.Player
}

// NewCached wraps a loader so the catalog is read at most once successfully.
func NewCached(source Loader, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{source: source, logger: logger}
}

// Load returns the catalog, reading the source on first use.
func (c *Cached) Load(ctx context.Context) ([]types.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.players, nil
	}
	players, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.players = players
	c.loaded = true
	c.logger.Info("catalog loaded", zap.Int("players", len(players)))
	return players, nil
}
