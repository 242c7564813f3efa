package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/squad-builder/internal/types"
)

const (
	// DefaultBatchSize is the number of documents per embedding request.
	DefaultBatchSize = 100
	// DefaultConcurrency bounds in-flight embedding requests while indexing.
	DefaultConcurrency = 4
)

// VectorIndex is an in-memory cosine-similarity index over player documents.
type VectorIndex struct {
	embedder    Embedder
	store       Store
	batchSize   int
	concurrency int
	logger      *zap.Logger

	mu      sync.RWMutex
	entries []Entry
}

// IndexOption configures a VectorIndex.
type IndexOption func(*VectorIndex)

// WithStore persists entries after indexing and enables Restore.
func WithStore(s Store) IndexOption {
	return func(v *VectorIndex) { v.store = s }
}

// WithBatching sets the batch size and the number of concurrent batches.
func WithBatching(size, concurrency int) IndexOption {
	return func(v *VectorIndex) {
		if size > 0 {
			v.batchSize = size
		}
		if concurrency > 0 {
			v.concurrency = concurrency
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) IndexOption {
	return func(v *VectorIndex) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVectorIndex creates an empty index.
func NewVectorIndex(embedder Embedder, opts ...IndexOption) *VectorIndex {
	v := &VectorIndex{
		embedder:    embedder,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Index embeds every player and replaces the index content. Batches are
// embedded concurrently; any failure aborts the whole build and leaves the
// previous content in place.
func (v *VectorIndex) Index(ctx context.Context, players []types.Player) error {
	start := time.Now()
	entries := make([]Entry, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for lo := 0; lo < len(players); lo += v.batchSize {
		hi := min(lo+v.batchSize, len(players))
		g.Go(func() error {
			docs := make([]string, hi-lo)
			for i := lo; i < hi; i++ {
				docs[i-lo] = Document(players[i])
			}
			vecs, err := v.embedder.EmbedDocuments(gctx, docs)
			if err != nil {
				return fmt.Errorf("embed batch %d-%d: %w", lo, hi, err)
			}
			if len(vecs) != len(docs) {
				return fmt.Errorf("embed batch %d-%d: got %d vectors", lo, hi, len(vecs))
			}
			for i, vec := range vecs {
				entries[lo+i] = Entry{Player: players[lo+i], Vector: vec}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if v.store != nil {
		if err := v.store.Save(ctx, entries); err != nil {
			return err
		}
	}

	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()

	v.logger.Info("search index built",
		zap.Int("players", len(entries)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Restore loads persisted entries. It reports false when no store is
// configured or the store is empty.
func (v *VectorIndex) Restore(ctx context.Context) (bool, error) {
	if v.store == nil {
		return false, nil
	}
	entries, err := v.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}

	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()

	v.logger.Info("search index restored", zap.Int("players", len(entries)))
	return true, nil
}

// Len returns the number of indexed players.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

type scored struct {
	idx   int
	score float64
}

// Query returns the k players whose documents are most similar to text.
// Equal scores keep index order.
func (v *VectorIndex) Query(ctx context.Context, text string, k int) ([]types.Player, error) {
	v.mu.RLock()
	entries := v.entries
	v.mu.RUnlock()
	if len(entries) == 0 {
		return nil, ErrNotIndexed
	}
	if k <= 0 {
		return nil, nil
	}

	q, err := v.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]scored, 0, len(entries))
	for i, e := range entries {
		s, ok := cosine(q, e.Vector)
		if !ok {
			continue
		}
		results = append(results, scored{idx: i, score: s})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > k {
		results = results[:k]
	}

	out := make([]types.Player, len(results))
	for i, r := range results {
		out[i] = entries[r.idx].Player
	}
	return out, nil
}

// cosine returns the cosine similarity of a and b. It reports false on a
// dimension mismatch. Zero vectors score 0.
func cosine(a, b []float32) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, true
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}
