package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"recipe-finder/internal/recipe"
)

// FileStore keeps the bookmark set in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore and ensures the parent directory exists.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the bookmark file. A missing file means no bookmarks yet.
func (s *FileStore) Load(_ context.Context) ([]recipe.Recipe, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bookmark file: %w", err)
	}
	return decode(data)
}

// Save overwrites the bookmark file. The write goes through a temp file so a
// crash never leaves a truncated set behind.
func (s *FileStore) Save(_ context.Context, bookmarks []recipe.Recipe) error {
	data, err := encode(bookmarks)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write bookmark file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace bookmark file: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}
