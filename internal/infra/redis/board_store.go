package redis

import (
	"context"
	"sync"
	"time"

	"truthle-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// BoardStore is a Redis-aware implementation of app.BoardRepository.
// Notes:
//   - Boards stay in a local in-memory map to reuse the in-process broadcast
//     logic; Redis marks board liveness for the fleet.
//   - For true cross-instance fan-out you'd pair this with a pub/sub
//     projector that relays snapshots.
type BoardStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	boards map[string]*app.Board
}

func NewBoardStore(client *redis.Client, ttl time.Duration) *BoardStore {
	return &BoardStore{
		client: client,
		ttl:    ttl,
		boards: make(map[string]*app.Board),
	}
}

func (s *BoardStore) GetOrCreate(date string) *app.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if board, ok := s.boards[date]; ok {
		return board
	}
	board := app.NewBoard(date)
	s.boards[date] = board
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(date), "1", s.ttl).Err()
	return board
}

func (s *BoardStore) Get(date string) (*app.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[date]
	return board, ok
}

func (s *BoardStore) key(date string) string {
	return "board:" + date
}
