package memory

import (
	"context"
	"testing"

	"truthle-quiz-service/internal/domain"
)

func TestAttemptStoreCreateIsConditional(t *testing.T) {
	store := NewAttemptStore()
	ctx := context.Background()

	attempt := domain.Attempt{Identity: "u1", Date: "2025-02-14", Score: 700}
	created, err := store.Create(ctx, attempt)
	if err != nil || !created {
		t.Fatalf("first create: (%v, %v)", created, err)
	}

	clobber := attempt
	clobber.Score = 0
	created, err = store.Create(ctx, clobber)
	if err != nil || created {
		t.Fatalf("duplicate create should report false: (%v, %v)", created, err)
	}

	got, found, _ := store.Get(ctx, "2025-02-14", "u1")
	if !found || got.Score != 700 {
		t.Fatalf("original attempt lost: %+v", got)
	}

	// same identity, different day is a fresh document
	attempt.Date = "2025-02-15"
	if created, _ := store.Create(ctx, attempt); !created {
		t.Fatalf("new day should create")
	}
}

func TestProgressCache(t *testing.T) {
	cache := NewProgressCache()
	ctx := context.Background()

	if _, ok, _ := cache.Load(ctx, "u1"); ok {
		t.Fatalf("unknown identity reported as present")
	}

	p := domain.Progress{LastPlayed: "2025-02-14", Streak: 3, GamesPlayed: 7}
	if err := cache.Save(ctx, "u1", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, _ := cache.Load(ctx, "u1")
	if !ok || got.Streak != 3 || got.GamesPlayed != 7 {
		t.Fatalf("unexpected progress %+v", got)
	}
}

func TestCoinLedgerClaims(t *testing.T) {
	ledger := NewCoinLedger()
	ctx := context.Background()

	if claimed, _ := ledger.Claim(ctx, "u1", "play:2025-02-14"); !claimed {
		t.Fatalf("first claim should succeed")
	}
	if claimed, _ := ledger.Claim(ctx, "u1", "play:2025-02-14"); claimed {
		t.Fatalf("duplicate claim should fail")
	}

	if b, _ := ledger.Add(ctx, "u1", 195); b != 195 {
		t.Fatalf("expected 195, got %d", b)
	}
	if b, _ := ledger.Balance(ctx, "u1"); b != 195 {
		t.Fatalf("expected 195, got %d", b)
	}
	if b, _ := ledger.Balance(ctx, "u2"); b != 0 {
		t.Fatalf("balances must be per identity, got %d", b)
	}
}

func TestBoardStore(t *testing.T) {
	store := NewBoardStore()

	if _, ok := store.Get("2025-02-14"); ok {
		t.Fatalf("missing board reported as present")
	}

	board := store.GetOrCreate("2025-02-14")
	if board == nil {
		t.Fatalf("expected a board")
	}
	if again := store.GetOrCreate("2025-02-14"); again != board {
		t.Fatalf("GetOrCreate must return the same board for a date")
	}
	if got, ok := store.Get("2025-02-14"); !ok || got != board {
		t.Fatalf("Get should find the created board")
	}
}
