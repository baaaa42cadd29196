package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"truthle-quiz-service/internal/domain"
	"truthle-quiz-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DailyQuizCache caches the built daily set as one JSON value per date
// (daily:{date}) so a fleet generates each day's quiz once, falling back to
// the deterministic builder on a miss.
type DailyQuizCache struct {
	client  *redis.Client
	builder memory.DailyBuilder
	ttl     time.Duration
	sf      singleflight.Group
	rnd     *rand.Rand
}

func NewDailyQuizCache(client *redis.Client, builder memory.DailyBuilder, ttl time.Duration) *DailyQuizCache {
	return &DailyQuizCache{
		client:  client,
		builder: builder,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DailyQuizCache) key(date string) string { return "daily:" + date }

func (r *DailyQuizCache) GetDaily(ctx context.Context, date string) (domain.DailyQuiz, error) {
	if quiz, ok := r.fromCache(ctx, date); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(date, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, date); ok {
			return quiz, nil
		}

		quiz, err := r.builder.BuildDaily(ctx, date)
		if err != nil {
			return domain.DailyQuiz{}, err
		}

		raw, err := json.Marshal(quiz)
		if err != nil {
			return domain.DailyQuiz{}, fmt.Errorf("encode daily quiz: %w", err)
		}
		// best-effort: a failed cache write still serves the built quiz
		_ = r.client.Set(ctx, r.key(date), raw, r.ttlWithJitter()).Err()
		return quiz, nil
	})
	if err != nil {
		return domain.DailyQuiz{}, err
	}
	return result.(domain.DailyQuiz), nil
}

func (r *DailyQuizCache) fromCache(ctx context.Context, date string) (domain.DailyQuiz, bool) {
	raw, err := r.client.Get(ctx, r.key(date)).Bytes()
	if errors.Is(err, redis.Nil) || err != nil {
		return domain.DailyQuiz{}, false
	}
	var quiz domain.DailyQuiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.DailyQuiz{}, false
	}
	return quiz, true
}

func (r *DailyQuizCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
