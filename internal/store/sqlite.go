package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps snapshots in a local SQLite file. Meant for
// development and for deployments without a gist credential.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the database at
// path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := conn.Exec(createTableSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Read returns the snapshot stored under key.
func (s *SQLiteStore) Read(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return []byte(data), nil
}

// Write upserts the snapshot under key.
func (s *SQLiteStore) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
