package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/types"
)

// Source supplies the players to index on first use.
type Source func(ctx context.Context) ([]types.Player, error)

// LazyIndex builds its underlying index on the first query. Concurrent first
// callers wait for a single build. A failed build is retried by the next call.
type LazyIndex struct {
	index  *VectorIndex
	source Source
	logger *zap.Logger

	mu    sync.Mutex
	built bool
}

// NewLazyIndex wraps index so it is restored from its store, or built from
// source, when first needed.
func NewLazyIndex(index *VectorIndex, source Source, logger *zap.Logger) *LazyIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LazyIndex{index: index, source: source, logger: logger}
}

// Ready builds the index if it has not been built yet.
func (l *LazyIndex) Ready(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.built {
		return nil
	}

	restored, err := l.index.Restore(ctx)
	if err != nil {
		l.logger.Warn("could not restore search index, rebuilding", zap.Error(err))
	}
	if !restored {
		players, err := l.source(ctx)
		if err != nil {
			return err
		}
		if err := l.index.Index(ctx, players); err != nil {
			return err
		}
	}
	l.built = true
	return nil
}

// Index replaces the index content directly.
func (l *LazyIndex) Index(ctx context.Context, players []types.Player) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.index.Index(ctx, players); err != nil {
		return err
	}
	l.built = true
	return nil
}

// Query ensures the index is ready, then searches it.
func (l *LazyIndex) Query(ctx context.Context, text string, k int) ([]types.Player, error) {
	if err := l.Ready(ctx); err != nil {
		return nil, err
	}
	return l.index.Query(ctx, text, k)
}
