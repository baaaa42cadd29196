package redis

import (
	"context"
	"fmt"

	"truthle-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const subscriberKey = "reminder:subscribers"

// SubscriberStore keeps the reminder list as a hash identity -> email.
type SubscriberStore struct {
	client *redis.Client
}

func NewSubscriberStore(client *redis.Client) *SubscriberStore {
	return &SubscriberStore{client: client}
}

func (s *SubscriberStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	entries, err := s.client.HGetAll(ctx, subscriberKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	out := make([]domain.Subscriber, 0, len(entries))
	for identity, email := range entries {
		out = append(out, domain.Subscriber{Identity: identity, Email: email})
	}
	return out, nil
}

func (s *SubscriberStore) Subscribe(ctx context.Context, sub domain.Subscriber) error {
	if err := s.client.HSet(ctx, subscriberKey, sub.Identity, sub.Email).Err(); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}
