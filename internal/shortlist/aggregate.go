// Package shortlist gathers the candidate pool for a squad build from several
// semantic queries.
package shortlist

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/search"
	"github.com/jonathan/squad-builder/internal/types"
)

const (
	// PrimaryK is the result count for the user's own query.
	PrimaryK = 60
	// SupplementaryK is the result count for each positional top-up query.
	SupplementaryK = 15
)

// SupplementaryQueries top up positional depth the user's query may miss.
var SupplementaryQueries = []string{
	"top rated goalkeepers and defenders",
	"skilled midfielders and forwards creative passing",
}

// Aggregator builds a deduplicated shortlist.
type Aggregator struct {
	searcher search.Searcher
	logger   *zap.Logger
}

// NewAggregator creates an aggregator over a searcher.
func NewAggregator(s search.Searcher, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{searcher: s, logger: logger}
}

// Aggregate runs the primary query and the supplementary queries in order and
// concatenates their results, keeping the first occurrence of each player.
// An empty query is replaced by types.DefaultQuery.
func (a *Aggregator) Aggregate(ctx context.Context, query string) ([]types.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = types.DefaultQuery
	}

	type pass struct {
		text string
		k    int
	}
	passes := []pass{{query, PrimaryK}}
	for _, q := range SupplementaryQueries {
		passes = append(passes, pass{q, SupplementaryK})
	}

	seen := make(map[string]bool)
	var out []types.Player
	for _, p := range passes {
		found, err := a.searcher.Query(ctx, p.text, p.k)
		if err != nil {
			return nil, &types.ChannelError{Collaborator: "search", Op: "query", Cause: err}
		}
		added := 0
		for _, player := range found {
			id := player.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, player)
			added++
		}
		a.logger.Debug("shortlist pass",
			zap.String("query", p.text),
			zap.Int("found", len(found)),
			zap.Int("added", added))
	}
	return out, nil
}
