package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/squad-builder/internal/types"
)

// PlayerRow is the column projection of a stored player
type PlayerRow struct {
	Version     int
	ID          string
	ShortName   string
	LongName    string
	Category    string
	Roles       []string
	Overall     int
	ValueEUR    float64
	WageEUR     float64
	Nationality string
	Club        string
	Data        []byte
}

// NewPlayerRow projects a player into its stored form
func NewPlayerRow(version int, p types.Player) (PlayerRow, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return PlayerRow{}, fmt.Errorf("failed to marshal player %s: %w", p.DisplayName(), err)
	}
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	return PlayerRow{
		Version:     version,
		ID:          p.ID(),
		ShortName:   p.ShortName,
		LongName:    p.LongName,
		Category:    string(p.Category),
		Roles:       roles,
		Overall:     p.Overall,
		ValueEUR:    p.ValueEUR,
		WageEUR:     p.WageEUR,
		Nationality: p.Nationality,
		Club:        p.Club,
		Data:        data,
	}, nil
}

// Player decodes the full record
func (r PlayerRow) Player() (types.Player, error) {
	var p types.Player
	if err := json.Unmarshal(r.Data, &p); err != nil {
		return types.Player{}, fmt.Errorf("failed to unmarshal player %s: %w", r.ID, err)
	}
	return p, nil
}

// UpsertPlayers writes players for a dataset version in one batch and returns
// the number of rows written
func (db *DB) UpsertPlayers(ctx context.Context, version int, players []types.Player) (int, error) {
	batch := &pgx.Batch{}
	for _, p := range players {
		row, err := NewPlayerRow(version, p)
		if err != nil {
			return 0, err
		}
		batch.Queue(
			`INSERT INTO players (fifa_version, player_id, short_name, long_name, category, roles, overall, value_eur, wage_eur, nationality, club, data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (fifa_version, player_id) DO UPDATE SET
			   long_name = $4, category = $5, roles = $6, value_eur = $8, wage_eur = $9,
			   nationality = $10, data = $12, updated_at = NOW()`,
			row.Version, row.ID, row.ShortName, row.LongName, row.Category, row.Roles,
			row.Overall, row.ValueEUR, row.WageEUR, row.Nationality, row.Club, row.Data,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for i := range players {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("failed to upsert player %s: %w", players[i].DisplayName(), err)
		}
	}
	return len(players), nil
}

// ListPlayers returns all players of a dataset version, highest rated first
func (db *DB) ListPlayers(ctx context.Context, version int) ([]types.Player, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT player_id, data FROM players WHERE fifa_version = $1 ORDER BY overall DESC, short_name`,
		version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []types.Player
	for rows.Next() {
		var row PlayerRow
		if err := rows.Scan(&row.ID, &row.Data); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p, err := row.Player()
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}
	return players, nil
}

// CountPlayers returns the number of stored players for a dataset version
func (db *DB) CountPlayers(ctx context.Context, version int) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE fifa_version = $1`, version).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}
