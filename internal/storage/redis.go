package storage

import (
	"context"
	"errors"
	"fmt"

	"recipe-finder/internal/recipe"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the bookmark set as one string value in redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	if key == "" {
		key = bookmarksKey
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load reads the bookmark key. A missing key means no bookmarks yet.
func (s *RedisStore) Load(ctx context.Context) ([]recipe.Recipe, error) {
	value, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return decode(value)
}

// Save overwrites the bookmark key.
func (s *RedisStore) Save(ctx context.Context, bookmarks []recipe.Recipe) error {
	data, err := encode(bookmarks)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write bookmarks: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
