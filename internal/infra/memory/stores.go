// Package memory holds the in-memory store implementations used in dev mode
// and as the fast local tier in front of the remote stores.
package memory

import (
	"context"
	"sync"

	"truthle-quiz-service/internal/domain"
)

// ProgressCache is the in-memory local progress tier. Single writer (the
// attempt service); last-write-wins is acceptable.
type ProgressCache struct {
	mu       sync.RWMutex
	progress map[string]domain.Progress
}

func NewProgressCache() *ProgressCache {
	return &ProgressCache{progress: make(map[string]domain.Progress)}
}

func (c *ProgressCache) Load(_ context.Context, identity string) (domain.Progress, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.progress[identity]
	return p, ok, nil
}

func (c *ProgressCache) Save(_ context.Context, identity string, p domain.Progress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress[identity] = p
	return nil
}

// AttemptStore is an in-memory remote-store stand-in with the same
// create-if-absent contract as the redis/postgres implementations.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]domain.Attempt)}
}

func attemptKey(date, identity string) string { return date + "/" + identity }

func (s *AttemptStore) Get(_ context.Context, date, identity string) (domain.Attempt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[attemptKey(date, identity)]
	return a, ok, nil
}

func (s *AttemptStore) Create(_ context.Context, attempt domain.Attempt) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptKey(attempt.Date, attempt.Identity)
	if _, exists := s.attempts[key]; exists {
		return false, nil
	}
	s.attempts[key] = attempt
	return true, nil
}

// CoinLedger is an in-memory balance store with claim-based dedupe.
type CoinLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	claims   map[string]struct{}
}

func NewCoinLedger() *CoinLedger {
	return &CoinLedger{
		balances: make(map[string]int64),
		claims:   make(map[string]struct{}),
	}
}

func (l *CoinLedger) Claim(_ context.Context, identity, ref string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := identity + "/" + ref
	if _, exists := l.claims[key]; exists {
		return false, nil
	}
	l.claims[key] = struct{}{}
	return true, nil
}

func (l *CoinLedger) Add(_ context.Context, identity string, amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[identity] += amount
	return l.balances[identity], nil
}

func (l *CoinLedger) Balance(_ context.Context, identity string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[identity], nil
}

// SubscriberStore is a static in-memory reminder subscription list.
type SubscriberStore struct {
	mu   sync.RWMutex
	subs []domain.Subscriber
}

func NewSubscriberStore(subs []domain.Subscriber) *SubscriberStore {
	return &SubscriberStore{subs: subs}
}

func (s *SubscriberStore) List(_ context.Context) ([]domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Subscriber, len(s.subs))
	copy(out, s.subs)
	return out, nil
}

func (s *SubscriberStore) Subscribe(_ context.Context, sub domain.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return nil
}
