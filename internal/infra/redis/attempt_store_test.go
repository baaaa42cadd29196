package redis

import (
	"context"
	"testing"
	"time"

	"truthle-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestAttemptStoreCreateIsConditional(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr))
	ctx := context.Background()

	attempt := domain.Attempt{
		Identity:   "u1",
		Date:       "2025-02-14",
		Score:      1230,
		Correct:    []bool{true, true, false},
		Times:      []float64{2.1, 4.7, 11.0},
		Streak:     3,
		RecordedAt: time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC),
	}

	created, err := store.Create(ctx, attempt)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created {
		t.Fatalf("first create should report created")
	}

	// a second create must not overwrite
	overwrite := attempt
	overwrite.Score = 0
	created, err = store.Create(ctx, overwrite)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatalf("duplicate create should report not created")
	}

	got, found, err := store.Get(ctx, "2025-02-14", "u1")
	if err != nil || !found {
		t.Fatalf("get: (%v, %v)", found, err)
	}
	if got.Score != 1230 || got.Streak != 3 || len(got.Correct) != 3 {
		t.Fatalf("stored attempt mangled: %+v", got)
	}
	if !got.RecordedAt.Equal(attempt.RecordedAt) {
		t.Fatalf("timestamp mangled: %v", got.RecordedAt)
	}
}

func TestAttemptStoreGetMissing(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr))

	_, found, err := store.Get(context.Background(), "2025-02-14", "ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("missing attempt reported as found")
	}
}
