package catalog

import (
	"context"
	"fmt"

	"github.com/jonathan/squad-builder/internal/types"
)

// PlayerLister is the storage the Postgres loader reads from. *db.DB satisfies it.
type PlayerLister interface {
	ListPlayers(ctx context.Context, version int) ([]types.Player, error)
}

// PostgresLoader reads the catalog from the players table.
type PostgresLoader struct {
	Store   PlayerLister
	Version int
}

// Load lists stored players. An empty table is a DataUnavailableError.
func (l PostgresLoader) Load(ctx context.Context) ([]types.Player, error) {
	version := l.Version
	if version == 0 {
		version = DefaultVersion
	}
	source := fmt.Sprintf("postgres players (version %d)", version)

	players, err := l.Store.ListPlayers(ctx, version)
	if err != nil {
		return nil, &DataUnavailableError{Source: source, Cause: err}
	}
	if len(players) == 0 {
		return nil, &DataUnavailableError{Source: source, Cause: fmt.Errorf("no players ingested")}
	}
	return players, nil
}
