package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrFeedbackNotFound is returned when a page has no feedback record
var ErrFeedbackNotFound = errors.New("feedback not found")

// RecordFeedback counts one click for page in a single transaction
func (s *Store) RecordFeedback(ctx context.Context, page, title string, at time.Time) error {
	key := FeedbackKey(page)
	ts := at.UTC().Format(time.RFC3339Nano)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, fieldCount, 1)
		pipe.HSetNX(ctx, key, fieldFirstSeen, ts)
		pipe.HSet(ctx, key, fieldLastSeen, ts)
		if title != "" {
			pipe.HSet(ctx, key, fieldTitle, title)
		}
		pipe.SAdd(ctx, AllFeedbackKey(), page)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// GetFeedback retrieves the feedback record of a page
func (s *Store) GetFeedback(ctx context.Context, page string) (*domain.Feedback, error) {
	fields, err := s.client.HGetAll(ctx, FeedbackKey(page)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeedbackNotFound, page)
	}
	return decodeFeedback(page, fields)
}

// GetAllFeedback retrieves all feedback records, sorted by count
func (s *Store) GetAllFeedback(ctx context.Context) ([]*domain.Feedback, error) {
	pages, err := s.client.SMembers(ctx, AllFeedbackKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback pages: %w", err)
	}

	if len(pages) == 0 {
		return []*domain.Feedback{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(pages))
	for i, page := range pages {
		cmds[i] = pipe.HGetAll(ctx, FeedbackKey(page))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get feedback records: %w", err)
	}

	records := make([]*domain.Feedback, 0, len(pages))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Set member without hash, skip
			continue
		}
		f, err := decodeFeedback(pages[i], fields)
		if err != nil {
			// Skip records that couldn't be decoded
			continue
		}
		records = append(records, f)
	}

	domain.SortFeedback(records)
	return records, nil
}

// DeleteFeedback removes the feedback record of a page
func (s *Store) DeleteFeedback(ctx context.Context, page string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, FeedbackKey(page))
		pipe.SRem(ctx, AllFeedbackKey(), page)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

func decodeFeedback(page string, fields map[string]string) (*domain.Feedback, error) {
	f := &domain.Feedback{
		Page:  page,
		Title: fields[fieldTitle],
	}

	var err error
	if v := fields[fieldCount]; v != "" {
		if f.Count, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid count for %s: %w", page, err)
		}
	}
	if v := fields[fieldFirstSeen]; v != "" {
		if f.FirstSeen, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("invalid first_seen for %s: %w", page, err)
		}
	}
	if v := fields[fieldLastSeen]; v != "" {
		if f.LastSeen, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("invalid last_seen for %s: %w", page, err)
		}
	}
	return f, nil
}
