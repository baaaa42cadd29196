// Package redis holds the Redis-backed remote tiers: attempt documents, the
// coin ledger, the daily-quiz cache, reminder subscriptions, and board
// liveness markers.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"truthle-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptStore keeps one JSON document per (date, identity) under
// attempt:{date}:{identity}. Creation is SET NX so concurrent tabs cannot
// overwrite an existing attempt.
type AttemptStore struct {
	client *redis.Client
}

func NewAttemptStore(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

func (s *AttemptStore) key(date, identity string) string {
	return "attempt:" + date + ":" + identity
}

func (s *AttemptStore) Get(ctx context.Context, date, identity string) (domain.Attempt, bool, error) {
	raw, err := s.client.Get(ctx, s.key(date, identity)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, fmt.Errorf("get attempt: %w", err)
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(raw, &attempt); err != nil {
		return domain.Attempt{}, false, fmt.Errorf("decode attempt: %w", err)
	}
	return attempt, true, nil
}

func (s *AttemptStore) Create(ctx context.Context, attempt domain.Attempt) (bool, error) {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return false, fmt.Errorf("encode attempt: %w", err)
	}
	created, err := s.client.SetNX(ctx, s.key(attempt.Date, attempt.Identity), raw, 0).Result()
	if err != nil {
		return false, fmt.Errorf("create attempt: %w", err)
	}
	return created, nil
}
