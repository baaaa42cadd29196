package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"truthle-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DailyBuilder produces the question set for a date (deterministic builder
// or a remote-backed variant).
type DailyBuilder interface {
	BuildDaily(ctx context.Context, date string) (domain.DailyQuiz, error)
}

// DailyQuizCache caches built daily sets with TTL so a burst of requests for
// today's quiz triggers a single generation.
type DailyQuizCache struct {
	builder DailyBuilder
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.DailyQuiz
	expiresAt time.Time
}

func NewDailyQuizCache(builder DailyBuilder, ttl time.Duration) *DailyQuizCache {
	return &DailyQuizCache{
		builder: builder,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedQuiz),
	}
}

func (r *DailyQuizCache) GetDaily(ctx context.Context, date string) (domain.DailyQuiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[date]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(date, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[date]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.builder.BuildDaily(ctx, date)
		if err != nil {
			return domain.DailyQuiz{}, err
		}

		r.mu.Lock()
		r.cache[date] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.DailyQuiz{}, err
	}
	return result.(domain.DailyQuiz), nil
}

func (r *DailyQuizCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
