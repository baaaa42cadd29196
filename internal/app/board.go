package app

import (
	"sort"
	"sync"
	"time"

	"truthle-quiz-service/internal/domain"
)

// BoardRepository abstracts how daily leaderboards are stored (in-memory, Redis, etc).
type BoardRepository interface {
	GetOrCreate(date string) *Board
	Get(date string) (*Board, bool)
}

// Board accumulates the scoreboard for one calendar day and fans out
// snapshots to subscribers as attempts land.
type Board struct {
	date      string
	now       func() time.Time
	mu        sync.RWMutex
	entries   map[string]*boardEntry
	observers map[chan domain.Board]struct{}
}

type boardEntry struct {
	identity    string
	displayName string
	score       int
	recordedAt  time.Time
}

// NewBoard is exported for infrastructure layers that need to seed boards.
func NewBoard(date string) *Board {
	return NewBoardWithClock(date, time.Now)
}

// NewBoardWithClock allows deterministic timestamps in tests.
func NewBoardWithClock(date string, now func() time.Time) *Board {
	return &Board{
		date:      date,
		now:       now,
		entries:   make(map[string]*boardEntry),
		observers: make(map[chan domain.Board]struct{}),
	}
}

// Post records (or refreshes) an identity's score and broadcasts the updated
// board. One attempt per day means a repost only happens on sync-down.
func (b *Board) Post(identity, displayName string, score int) domain.Board {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry, ok := b.entries[identity]; ok {
		entry.displayName = displayName
		entry.score = score
	} else {
		b.entries[identity] = &boardEntry{
			identity:    identity,
			displayName: displayName,
			score:       score,
			recordedAt:  b.now(),
		}
	}
	return b.broadcastLocked()
}

// Snapshot returns the current ordered board.
func (b *Board) Snapshot() domain.Board {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// Size reports the number of entries on the board.
func (b *Board) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Subscribe returns a channel receiving board updates, primed with the
// current snapshot. The cancel function must be called to avoid leaks.
func (b *Board) Subscribe() (<-chan domain.Board, func()) {
	ch := make(chan domain.Board, 8)

	b.mu.Lock()
	b.observers[ch] = struct{}{}
	initial := b.snapshotLocked()
	b.mu.Unlock()

	ch <- initial

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.observers[ch]; ok {
			delete(b.observers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Board) broadcastLocked() domain.Board {
	snap := b.snapshotLocked()
	for ch := range b.observers {
		select {
		case ch <- snap:
		default:
			// drop the stale update so a slow consumer never blocks the rest
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (b *Board) snapshotLocked() domain.Board {
	entries := make([]domain.BoardEntry, 0, len(b.entries))
	for _, e := range b.entries {
		entries = append(entries, domain.BoardEntry{
			Identity:    e.identity,
			DisplayName: e.displayName,
			Score:       e.score,
		})
	}

	// score desc, earlier record wins ties, then name
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		ei := b.entries[entries[i].Identity]
		ej := b.entries[entries[j].Identity]
		if ei != nil && ej != nil && !ei.recordedAt.Equal(ej.recordedAt) {
			return ei.recordedAt.Before(ej.recordedAt)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Board{
		Date:      b.date,
		Entries:   entries,
		UpdatedAt: b.now(),
	}
}
