// Package app contains the Truthle use cases: recording daily attempts,
// serving the cached daily set, daily leaderboards, postback crediting, and
// the reminder scan.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"truthle-quiz-service/internal/domain"
	"truthle-quiz-service/internal/economy"
	"truthle-quiz-service/internal/scoring"
)

const dateLayout = "2006-01-02"

// ProgressCache is the local-first tier: fast, device-authoritative for "have
// I played today", never authoritative over the remote store when both hold a
// record.
type ProgressCache interface {
	Load(ctx context.Context, identity string) (domain.Progress, bool, error)
	Save(ctx context.Context, identity string, p domain.Progress) error
}

// AttemptStore is the remote document tier keyed by (date, identity).
// Create must be conditional: it reports false without error when a document
// already exists, so two tabs cannot overwrite each other.
type AttemptStore interface {
	Get(ctx context.Context, date, identity string) (domain.Attempt, bool, error)
	Create(ctx context.Context, attempt domain.Attempt) (bool, error)
}

// CoinLedger mutates balances with lost-update-safe primitives. Claim is a
// create-if-absent dedupe marker; Add is an atomic increment.
type CoinLedger interface {
	Claim(ctx context.Context, identity, ref string) (bool, error)
	Add(ctx context.Context, identity string, amount int64) (int64, error)
	Balance(ctx context.Context, identity string) (int64, error)
}

// DailyQuizRepository serves the (cached) question set for a date.
type DailyQuizRepository interface {
	GetDaily(ctx context.Context, date string) (domain.DailyQuiz, error)
}

// RecordResult is everything the client needs after a play: the durable
// attempt, the score breakdown, the coin award, and the percentile estimate.
type RecordResult struct {
	Attempt       domain.Attempt    `json:"attempt"`
	Score         scoring.Breakdown `json:"score"`
	Coins         economy.Award     `json:"coins"`
	Percentile    int               `json:"percentile"`
	AlreadyPlayed bool              `json:"alreadyPlayed"`
}

// AttemptService owns the per-(identity, date) state machine:
// Unplayed -> Attempting -> Recorded, Recorded being terminal for the day.
type AttemptService struct {
	local  ProgressCache
	remote AttemptStore
	ledger CoinLedger
	boards BoardRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewAttemptService(local ProgressCache, remote AttemptStore, ledger CoinLedger, boards BoardRepository, log *zap.Logger) *AttemptService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttemptService{
		local:  local,
		remote: remote,
		ledger: ledger,
		boards: boards,
		log:    log,
		now:    time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *AttemptService) WithClock(now func() time.Time) *AttemptService {
	s.now = now
	return s
}

// Status reports whether the identity already played the given date. The
// local cache short-circuits the remote check; a remote hit is adopted into
// the local cache (sync-down) before reporting.
func (s *AttemptService) Status(ctx context.Context, identity, date string) (domain.Attempt, bool, error) {
	progress, ok, err := s.local.Load(ctx, identity)
	if err != nil {
		return domain.Attempt{}, false, err
	}
	if ok && progress.LastPlayed == date {
		return s.attemptFromProgress(identity, date, progress), true, nil
	}

	attempt, found, err := s.remote.Get(ctx, date, identity)
	if err != nil {
		// remote unreachable: trust the local view and assume unplayed
		s.log.Warn("remote attempt lookup failed, trusting local cache",
			zap.String("identity", identity), zap.String("date", date), zap.Error(err))
		return domain.Attempt{}, false, nil
	}
	if !found {
		return domain.Attempt{}, false, nil
	}

	s.adoptRemote(ctx, identity, progress, attempt)
	return attempt, true, nil
}

// Record writes the attempt for (identity, date) exactly once. A duplicate
// call is a no-op returning the stored result. The local cache write happens
// before the remote write; remote failure degrades to local-only success.
func (s *AttemptService) Record(ctx context.Context, identity, date string, correct []bool, times []float64, didShare bool) (RecordResult, error) {
	if identity == "" || len(correct) == 0 {
		return RecordResult{}, domain.ErrInvalidInput
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return RecordResult{}, domain.ErrInvalidInput
	}

	progress, _, err := s.local.Load(ctx, identity)
	if err != nil {
		return RecordResult{}, err
	}
	if progress.LastPlayed == date {
		return s.replayResult(identity, date, progress), nil
	}

	if existing, found, err := s.remote.Get(ctx, date, identity); err == nil && found {
		s.adoptRemote(ctx, identity, progress, existing)
		return RecordResult{
			Attempt:       existing,
			Percentile:    scoring.Percentile(existing.Score),
			AlreadyPlayed: true,
		}, nil
	}

	streak := NextStreak(progress.LastPlayed, date, progress.Streak)
	breakdown, err := scoring.Score(correct, times, streak)
	if err != nil {
		return RecordResult{}, err
	}

	isFirstPlay := progress.GamesPlayed == 0
	isPerfect := breakdown.CorrectCount == breakdown.TotalQuestions
	fastCount := scoring.FastAnswerCount(correct, times, economy.FastThresholdSeconds)
	award := economy.Earn(breakdown.CorrectCount, fastCount, streak, isPerfect, isFirstPlay, didShare)

	attempt := domain.Attempt{
		Identity:   identity,
		Date:       date,
		Score:      breakdown.Total,
		Correct:    correct,
		Times:      times,
		Streak:     streak,
		RecordedAt: s.now().UTC(),
	}

	progress.LastPlayed = date
	progress.TodayScore = breakdown.Total
	progress.TodayCorrect = correct
	progress.TodayTimes = times
	progress.Streak = streak
	if streak > progress.BestStreak {
		progress.BestStreak = streak
	}
	progress.GamesPlayed++
	progress.TotalCorrect += breakdown.CorrectCount

	// local write first: a crash before the remote write leaves the device self-consistent
	if err := s.local.Save(ctx, identity, progress); err != nil {
		return RecordResult{}, err
	}

	if created, err := s.remote.Create(ctx, attempt); err != nil {
		s.log.Warn("remote attempt write failed, keeping local record",
			zap.String("identity", identity), zap.String("date", date), zap.Error(err))
	} else if !created {
		s.log.Info("remote attempt already present, keeping local record",
			zap.String("identity", identity), zap.String("date", date))
	}

	if s.ledger != nil {
		// the claim makes the coin grant idempotent across tabs and retries
		if claimed, err := s.ledger.Claim(ctx, identity, "play:"+date); err != nil {
			s.log.Warn("coin claim failed", zap.String("identity", identity), zap.Error(err))
		} else if claimed {
			if _, err := s.ledger.Add(ctx, identity, int64(award.Total)); err != nil {
				s.log.Warn("coin credit failed", zap.String("identity", identity), zap.Error(err))
			}
		}
	}

	if s.boards != nil {
		s.boards.GetOrCreate(date).Post(identity, shortName(identity), breakdown.Total)
	}

	return RecordResult{
		Attempt:    attempt,
		Score:      breakdown,
		Coins:      award,
		Percentile: scoring.Percentile(breakdown.Total),
	}, nil
}

// Balance exposes the coin balance for the shop surface.
func (s *AttemptService) Balance(ctx context.Context, identity string) (int64, error) {
	if s.ledger == nil {
		return 0, nil
	}
	return s.ledger.Balance(ctx, identity)
}

// Progress returns the local aggregate for an identity.
func (s *AttemptService) Progress(ctx context.Context, identity string) (domain.Progress, error) {
	p, _, err := s.local.Load(ctx, identity)
	return p, err
}

// NextStreak implements the streak arithmetic: +1 when the previous play was
// exactly yesterday, reset to 1 on no history or a gap, unchanged when a
// record for the same day already exists.
func NextStreak(lastPlayed, date string, current int) int {
	if lastPlayed == "" {
		return 1
	}
	if lastPlayed == date {
		return current
	}
	prev, err1 := time.Parse(dateLayout, lastPlayed)
	day, err2 := time.Parse(dateLayout, date)
	if err1 != nil || err2 != nil {
		return 1
	}
	if prev.AddDate(0, 0, 1).Equal(day) {
		return current + 1
	}
	return 1
}

func (s *AttemptService) replayResult(identity, date string, progress domain.Progress) RecordResult {
	return RecordResult{
		Attempt:       s.attemptFromProgress(identity, date, progress),
		Percentile:    scoring.Percentile(progress.TodayScore),
		AlreadyPlayed: true,
	}
}

func (s *AttemptService) attemptFromProgress(identity, date string, p domain.Progress) domain.Attempt {
	return domain.Attempt{
		Identity: identity,
		Date:     date,
		Score:    p.TodayScore,
		Correct:  p.TodayCorrect,
		Times:    p.TodayTimes,
		Streak:   p.Streak,
	}
}

// adoptRemote syncs a remotely-recorded attempt down into the local cache.
// Remote wins here: cross-device continuity beats the stale local view.
func (s *AttemptService) adoptRemote(ctx context.Context, identity string, progress domain.Progress, attempt domain.Attempt) {
	correctCount := 0
	for _, ok := range attempt.Correct {
		if ok {
			correctCount++
		}
	}
	progress.LastPlayed = attempt.Date
	progress.TodayScore = attempt.Score
	progress.TodayCorrect = attempt.Correct
	progress.TodayTimes = attempt.Times
	progress.Streak = attempt.Streak
	if attempt.Streak > progress.BestStreak {
		progress.BestStreak = attempt.Streak
	}
	progress.GamesPlayed++
	progress.TotalCorrect += correctCount

	if err := s.local.Save(ctx, identity, progress); err != nil {
		s.log.Warn("sync-down failed", zap.String("identity", identity), zap.Error(err))
	}
}

// shortName derives a display handle from an opaque identity token.
func shortName(identity string) string {
	if len(identity) <= 8 {
		return "player-" + identity
	}
	return "player-" + identity[:8]
}
