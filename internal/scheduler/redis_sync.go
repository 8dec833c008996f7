package scheduler

import (
	"context"

	"github.com/alexander-kolodka/crestic-docs/internal/index"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/metrics"
	redisstore "github.com/alexander-kolodka/crestic-docs/internal/store/redis"
)

// RedisSyncer syncs feedback counters from Redis to memory index on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads feedback counters from Redis and updates memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing feedback from redis to memory")

	records, err := rs.store.GetAllFeedback(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		rs.logger.Info("no feedback found in redis")
		return nil
	}

	rs.index.UpdateFeedback(records)
	metrics.RecordFeedbackPages(len(records))

	rs.logger.Info("synced feedback from redis",
		logger.Int("count", len(records)))

	return nil
}
