package memory

import (
	"sync"

	"truthle-quiz-service/internal/app"
)

// BoardStore is an in-memory implementation of app.BoardRepository.
type BoardStore struct {
	mu     sync.RWMutex
	boards map[string]*app.Board
}

func NewBoardStore() *BoardStore {
	return &BoardStore{boards: make(map[string]*app.Board)}
}

func (s *BoardStore) GetOrCreate(date string) *app.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if board, ok := s.boards[date]; ok {
		return board
	}
	board := app.NewBoard(date)
	s.boards[date] = board
	return board
}

func (s *BoardStore) Get(date string) (*app.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[date]
	return board, ok
}
