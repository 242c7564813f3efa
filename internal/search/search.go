// Package search provides semantic retrieval over the player catalog. Players
// are embedded once into an in-memory vector index that can be persisted to
// SQLite and reloaded.
package search

import (
	"context"

	"github.com/jonathan/squad-builder/internal/types"
)

//go:generate mockgen -source=search.go -destination=mocks/mock_search.go -package=mocks

// Searcher returns players relevant to a free-text query.
type Searcher interface {
	// Index makes the players searchable, replacing any previous content.
	Index(ctx context.Context, players []types.Player) error
	// Query returns at most k players, most relevant first.
	Query(ctx context.Context, text string, k int) ([]types.Player, error)
}

// Embedder maps text to vectors.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Entry is one indexed player and its document vector.
type Entry struct {
	Player types.Player
	Vector []float32
}

// Store persists index entries between runs.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}
