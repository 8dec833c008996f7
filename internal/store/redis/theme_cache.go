package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheTheme stores a rendered theme document
func (s *Store) CacheTheme(ctx context.Context, format string, year int, revision string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultThemeTTL
	}
	if err := s.client.Set(ctx, ThemeKey(format, year, revision), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache theme: %w", err)
	}
	return nil
}

// GetCachedTheme retrieves a rendered theme document, nil on cache miss
func (s *Store) GetCachedTheme(ctx context.Context, format string, year int, revision string) ([]byte, error) {
	data, err := s.client.Get(ctx, ThemeKey(format, year, revision)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached theme: %w", err)
	}
	return data, nil
}

// FlushThemeCache removes all rendered themes and returns how many were deleted
func (s *Store) FlushThemeCache(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixTheme+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete theme key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush theme cache: %w", err)
	}
	return deleted, nil
}
