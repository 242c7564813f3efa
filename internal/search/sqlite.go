package search

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS player_embeddings (
	position INTEGER PRIMARY KEY,
	player_id TEXT NOT NULL,
	player TEXT NOT NULL,
	embedding BLOB NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_player_embeddings_id ON player_embeddings(player_id);
`

// SQLiteStore persists index entries in a SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens or creates the store at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Message: "failed to open database", Cause: err}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, &StoreError{Message: "failed to create schema", Cause: err}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Save replaces all stored entries in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Message: "failed to begin transaction", Cause: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM player_embeddings`); err != nil {
		return &StoreError{Message: "failed to clear embeddings", Cause: err}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO player_embeddings (position, player_id, player, embedding) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return &StoreError{Message: "failed to prepare insert", Cause: err}
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range entries {
		player, mErr := json.Marshal(e.Player)
		if mErr != nil {
			err = &StoreError{Message: "failed to encode player", Cause: mErr}
			return err
		}
		if _, err = stmt.ExecContext(ctx, i, e.Player.ID(), string(player), encodeVector(e.Vector)); err != nil {
			return &StoreError{Message: fmt.Sprintf("failed to insert %s", e.Player.DisplayName()), Cause: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return &StoreError{Message: "failed to commit", Cause: err}
	}
	return nil
}

// Load returns all stored entries in their saved order.
func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player, embedding FROM player_embeddings ORDER BY position`)
	if err != nil {
		return nil, &StoreError{Message: "failed to query embeddings", Cause: err}
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			player string
			blob   []byte
		)
		if err := rows.Scan(&player, &blob); err != nil {
			return nil, &StoreError{Message: "failed to scan row", Cause: err}
		}
		var e Entry
		if err := json.Unmarshal([]byte(player), &e.Player); err != nil {
			return nil, &StoreError{Message: "failed to decode player", Cause: err}
		}
		if e.Vector, err = decodeVector(blob); err != nil {
			return nil, &StoreError{Message: "failed to decode embedding", Cause: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Message: "failed to read rows", Cause: err}
	}
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeVector stores a vector as little-endian float32s.
func encodeVector(vec []float32) []byte {
	buf := &bytes.Buffer{}
	// Writes to a bytes.Buffer do not fail.
	_ = binary.Write(buf, binary.LittleEndian, vec)
	return buf.Bytes()
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, vec); err != nil {
		return nil, err
	}
	return vec, nil
}
