package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/index"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/metrics"
	redisstore "github.com/alexander-kolodka/crestic-docs/internal/store/redis"
)

const (
	// DefaultFeedbackTTL is the duration after which unseen feedback is pruned
	DefaultFeedbackTTL = 90 * 24 * time.Hour // 90 days
)

// FeedbackPruner handles cleanup of feedback records nobody clicked lately
type FeedbackPruner struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewFeedbackPruner creates a new feedback pruner
func NewFeedbackPruner(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *FeedbackPruner {
	if threshold == 0 {
		threshold = DefaultFeedbackTTL
	}

	return &FeedbackPruner{
		store:     store,
		index:     idx,
		logger:    log.With(logger.String("component", "feedback_pruner")),
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic pruning process
func (fp *FeedbackPruner) Start(ctx context.Context) error {
	// Run immediately on start
	fp.Prune(ctx)

	// Start periodic pruning
	ticker := time.NewTicker(fp.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fp.Prune(ctx)
			case <-fp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the pruner
func (fp *FeedbackPruner) Stop() {
	fp.stopOnce.Do(func() { close(fp.stopCh) })
}

// Prune removes feedback records last seen before the threshold and returns
// how many were removed. Redis deletions are best effort.
func (fp *FeedbackPruner) Prune(ctx context.Context) int {
	now := fp.now()
	cutoff := now.Add(-fp.threshold)
	deleted := 0

	for _, f := range fp.index.GetAllFeedback() {
		if f.LastSeen.IsZero() || !f.Stale(cutoff) {
			continue
		}

		// Delete from memory index
		fp.index.DeleteFeedback(f.Page)

		// Delete from Redis store (best effort)
		if fp.store != nil {
			if err := fp.store.DeleteFeedback(ctx, f.Page); err != nil {
				fp.logger.Warn("failed to delete feedback from redis",
					logger.String("page", f.Page),
					logger.Error(err))
			}
		}

		fp.logger.Debug("pruned stale feedback",
			logger.String("page", f.Page),
			logger.Int64("count", f.Count),
			logger.String("unseen_for", now.Sub(f.LastSeen).String()))

		deleted++
	}

	if deleted > 0 {
		fp.logger.Info("feedback pruning completed",
			logger.Int("deleted", deleted))
		metrics.AddFeedbackPruned(deleted)
	} else {
		fp.logger.Debug("no feedback to prune")
	}
	metrics.RecordFeedbackPages(fp.index.FeedbackCount())

	return deleted
}
