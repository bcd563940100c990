package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recipe-finder/internal/database"
	"recipe-finder/internal/recipe"
)

const bookmarksKey = "bookmarks"

// SQLiteStore keeps the bookmark set in the kv table of a sqlite database.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := database.NewDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the bookmark row. A missing row means no bookmarks yet.
func (s *SQLiteStore) Load(ctx context.Context) ([]recipe.Recipe, error) {
	var value string
	err := s.db.SQL.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, bookmarksKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return decode([]byte(value))
}

// Save upserts the bookmark row.
func (s *SQLiteStore) Save(ctx context.Context, bookmarks []recipe.Recipe) error {
	data, err := encode(bookmarks)
	if err != nil {
		return err
	}
	_, err = s.db.SQL.ExecContext(ctx, `
INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		bookmarksKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to write bookmarks: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
