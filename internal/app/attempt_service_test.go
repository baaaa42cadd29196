package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"truthle-quiz-service/internal/app"
	"truthle-quiz-service/internal/domain"
	"truthle-quiz-service/internal/infra/memory"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)
	}
}

func newTestService() (*app.AttemptService, *memory.AttemptStore, *memory.CoinLedger) {
	remote := memory.NewAttemptStore()
	ledger := memory.NewCoinLedger()
	svc := app.NewAttemptService(memory.NewProgressCache(), remote, ledger, memory.NewBoardStore(), nil).
		WithClock(fixedClock())
	return svc, remote, ledger
}

func TestRecordFirstPlay(t *testing.T) {
	ctx := context.Background()
	svc, remote, ledger := newTestService()

	correct := []bool{true, true, true, false, true}
	times := []float64{2.0, 4.0, 9.0, 3.0, 16.0}

	res, err := svc.Record(ctx, "u1", "2025-02-14", correct, times, false)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if res.AlreadyPlayed {
		t.Fatalf("first play flagged as replay")
	}
	if res.Attempt.Streak != 1 {
		t.Fatalf("first play should start streak 1, got %d", res.Attempt.Streak)
	}
	// 4 correct * 100 + speed (50 + 40 + 20) + 5% streak bonus
	if res.Score.Base != 400 || res.Score.SpeedBonus != 110 {
		t.Fatalf("unexpected score %+v", res.Score)
	}
	if res.Coins.Breakdown.FirstPlay != 100 {
		t.Fatalf("first play should pay the welcome coins, got %+v", res.Coins.Breakdown)
	}

	if _, found, _ := remote.Get(ctx, "2025-02-14", "u1"); !found {
		t.Fatalf("attempt not mirrored to the remote store")
	}
	balance, _ := ledger.Balance(ctx, "u1")
	if balance != int64(res.Coins.Total) {
		t.Fatalf("ledger balance %d != award %d", balance, res.Coins.Total)
	}
}

func TestRecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, ledger := newTestService()

	correct := []bool{true, true}
	times := []float64{2.0, 2.0}

	first, err := svc.Record(ctx, "u1", "2025-02-14", correct, times, false)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	again, err := svc.Record(ctx, "u1", "2025-02-14", []bool{false, false}, times, false)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !again.AlreadyPlayed {
		t.Fatalf("second record should report already played")
	}
	if again.Attempt.Score != first.Attempt.Score {
		t.Fatalf("replay must return the stored score: %d != %d", again.Attempt.Score, first.Attempt.Score)
	}

	// no double coin grant
	balance, _ := ledger.Balance(ctx, "u1")
	if balance != int64(first.Coins.Total) {
		t.Fatalf("replay changed the balance: %d != %d", balance, first.Coins.Total)
	}
}

func TestRecordValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	if _, err := svc.Record(ctx, "", "2025-02-14", []bool{true}, []float64{1}, false); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty identity: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Record(ctx, "u1", "2025-02-14", nil, nil, false); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty run: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Record(ctx, "u1", "Feb 14", []bool{true}, []float64{1}, false); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bad date: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Record(ctx, "u1", "2025-02-14", []bool{true, true}, []float64{1}, false); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("length mismatch: expected ErrInvalidInput, got %v", err)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	correct := []bool{true}
	times := []float64{2.0}

	r1, _ := svc.Record(ctx, "u1", "2025-02-14", correct, times, false)
	if r1.Attempt.Streak != 1 {
		t.Fatalf("day 1 streak = %d", r1.Attempt.Streak)
	}
	r2, _ := svc.Record(ctx, "u1", "2025-02-15", correct, times, false)
	if r2.Attempt.Streak != 2 {
		t.Fatalf("consecutive day streak = %d", r2.Attempt.Streak)
	}
	// a gap resets
	r3, _ := svc.Record(ctx, "u1", "2025-02-20", correct, times, false)
	if r3.Attempt.Streak != 1 {
		t.Fatalf("post-gap streak = %d", r3.Attempt.Streak)
	}
}

func TestNextStreak(t *testing.T) {
	cases := []struct {
		last    string
		date    string
		current int
		want    int
	}{
		{"", "2025-02-14", 0, 1},
		{"2025-02-13", "2025-02-14", 5, 6},
		{"2025-02-14", "2025-02-14", 5, 5},
		{"2025-02-06", "2025-02-14", 5, 1},
		{"2025-01-31", "2025-02-01", 3, 4},
		{"2024-12-31", "2025-01-01", 9, 10},
		{"garbage", "2025-02-14", 5, 1},
	}
	for _, tc := range cases {
		if got := app.NextStreak(tc.last, tc.date, tc.current); got != tc.want {
			t.Fatalf("NextStreak(%q, %q, %d) = %d, want %d", tc.last, tc.date, tc.current, got, tc.want)
		}
	}
}

type failingAttemptStore struct{}

func (failingAttemptStore) Get(context.Context, string, string) (domain.Attempt, bool, error) {
	return domain.Attempt{}, false, errors.New("connection refused")
}
func (failingAttemptStore) Create(context.Context, domain.Attempt) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRecordSurvivesRemoteOutage(t *testing.T) {
	ctx := context.Background()
	svc := app.NewAttemptService(memory.NewProgressCache(), failingAttemptStore{}, memory.NewCoinLedger(), memory.NewBoardStore(), nil).
		WithClock(fixedClock())

	res, err := svc.Record(ctx, "u1", "2025-02-14", []bool{true}, []float64{2.0}, false)
	if err != nil {
		t.Fatalf("remote outage must not fail the record: %v", err)
	}
	if res.Attempt.Score == 0 {
		t.Fatalf("expected a scored attempt, got %+v", res)
	}

	// the local record still blocks a replay
	again, err := svc.Record(ctx, "u1", "2025-02-14", []bool{true}, []float64{2.0}, false)
	if err != nil || !again.AlreadyPlayed {
		t.Fatalf("expected replay detection from local cache, got (%+v, %v)", again, err)
	}
}

func TestStatusSyncsDownRemoteAttempt(t *testing.T) {
	ctx := context.Background()
	svc, remote, _ := newTestService()

	// another device already recorded today
	stored := domain.Attempt{
		Identity: "u1", Date: "2025-02-14", Score: 840,
		Correct: []bool{true, true}, Times: []float64{2, 3}, Streak: 4,
	}
	if created, err := remote.Create(ctx, stored); err != nil || !created {
		t.Fatalf("seed failed: (%v, %v)", created, err)
	}

	attempt, played, err := svc.Status(ctx, "u1", "2025-02-14")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !played || attempt.Score != 840 {
		t.Fatalf("expected the remote attempt, got (%+v, %v)", attempt, played)
	}

	// sync-down adopted it locally, so recording is now a replay
	res, err := svc.Record(ctx, "u1", "2025-02-14", []bool{false}, []float64{30}, false)
	if err != nil || !res.AlreadyPlayed || res.Attempt.Score != 840 {
		t.Fatalf("expected replay of the synced attempt, got (%+v, %v)", res, err)
	}

	p, err := svc.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if p.Streak != 4 || p.BestStreak != 4 || p.GamesPlayed != 1 {
		t.Fatalf("sync-down did not update local progress: %+v", p)
	}
}

func TestStatusUnplayed(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, played, err := svc.Status(ctx, "ghost", "2025-02-14")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if played {
		t.Fatalf("unknown identity reported as played")
	}
}

func TestRecordPostsToBoard(t *testing.T) {
	ctx := context.Background()
	boards := memory.NewBoardStore()
	svc := app.NewAttemptService(memory.NewProgressCache(), memory.NewAttemptStore(), memory.NewCoinLedger(), boards, nil).
		WithClock(fixedClock())

	if _, err := svc.Record(ctx, "user-aaaa-bbbb", "2025-02-14", []bool{true}, []float64{2.0}, false); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	board, ok := boards.Get("2025-02-14")
	if !ok {
		t.Fatalf("no board created for the day")
	}
	snap := board.Snapshot()
	if len(snap.Entries) != 1 || snap.Entries[0].Identity != "user-aaaa-bbbb" {
		t.Fatalf("unexpected board %+v", snap.Entries)
	}
	if snap.Entries[0].DisplayName != "player-user-aaa" {
		t.Fatalf("unexpected display name %q", snap.Entries[0].DisplayName)
	}
}
