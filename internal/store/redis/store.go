package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultThemeTTL is the default TTL for rendered themes (24 hours)
const DefaultThemeTTL = 24 * time.Hour

// Store handles Redis operations for feedback counters and the theme cache
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection to Redis
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
