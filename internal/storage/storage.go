// Package storage persists the bookmark set. Every backend stores the whole
// set as one JSON array under one key.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-finder/internal/config"
	"recipe-finder/internal/recipe"
)

// BookmarkStore is durable key-value storage for the bookmark set.
type BookmarkStore interface {
	// Load returns the stored set, or nil when nothing was stored yet.
	Load(ctx context.Context) ([]recipe.Recipe, error)
	// Save overwrites the stored set.
	Save(ctx context.Context, bookmarks []recipe.Recipe) error
	Close() error
}

// Open builds the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config) (BookmarkStore, error) {
	switch cfg.BookmarkBackend {
	case config.BackendFile, "":
		return NewFileStore(cfg.BookmarkPath)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.BookmarkPath)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisKey)
	default:
		return nil, fmt.Errorf("unknown bookmark backend %q", cfg.BookmarkBackend)
	}
}

func encode(bookmarks []recipe.Recipe) ([]byte, error) {
	if bookmarks == nil {
		bookmarks = []recipe.Recipe{}
	}
	data, err := json.Marshal(bookmarks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]recipe.Recipe, error) {
	var bookmarks []recipe.Recipe
	if err := json.Unmarshal(data, &bookmarks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmarks: %w", err)
	}
	return bookmarks, nil
}
