package quizgen

import (
	"context"
	"math/rand"
	"time"

	"truthle-quiz-service/internal/dataset"
	"truthle-quiz-service/internal/domain"
)

// DefaultTargetCount is the size of a full daily set.
const DefaultTargetCount = 10

// attemptBudget bounds generation retries; the returned set may end up
// shorter than the target and callers must tolerate that.
const attemptBudget = 100

// allKinds is the generator dispatch order. The index drawn from the RNG
// stream depends on this order, so it is part of the determinism contract.
var allKinds = []domain.QuestionKind{
	domain.KindHighest,
	domain.KindLowest,
	domain.KindCompare,
	domain.KindTrueFalse,
	domain.KindGuessValue,
	domain.KindDirection,
	domain.KindYesNo,
	domain.KindStrongestPair,
}

// BuildSeeded builds a question set from an explicit random source and
// config. Given the same dataset snapshot and a date-seeded RNG the result is
// byte-for-byte reproducible.
func BuildSeeded(countries []domain.Country, pool []domain.Correlation, rng Rand, cfg GenConfig, target int) []domain.Question {
	if target <= 0 {
		target = DefaultTargetCount
	}

	excl := NewExclusions()
	gen := NewGenerator(countries, pool, rng, cfg, excl)

	vars := dataset.Variables()
	rng.Shuffle(len(vars), func(i, j int) { vars[i], vars[j] = vars[j], vars[i] })

	usedVars := make(map[string]struct{}, len(vars))
	questions := make([]domain.Question, 0, target)

	vi := 0
	for attempt := 0; attempt < attemptBudget && len(questions) < target; attempt++ {
		v := vars[vi%len(vars)]
		vi++
		if _, used := usedVars[v.Key]; used {
			continue
		}

		kind := allKinds[rng.Intn(len(allKinds))]
		q, ok := gen.Generate(kind, v)
		if !ok {
			continue
		}
		questions = append(questions, q)
		if isValueKind(kind) {
			// each variable feeds at most one question per day
			usedVars[v.Key] = struct{}{}
		}
	}

	// question order is date-seeded too, not insertion order
	rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions
}

// BuildDaily builds the shared competitive set for a calendar day.
func BuildDaily(countries []domain.Country, pool []domain.Correlation, date string, target int) domain.DailyQuiz {
	rng := NewDateRNG(date)
	return domain.DailyQuiz{
		Date:      date,
		Questions: BuildSeeded(countries, pool, rng, DailyConfig, target),
	}
}

// BuildPractice builds a novel set for the practice surface: unseeded
// randomness, looser pools, and each variable reused at most twice.
func BuildPractice(countries []domain.Country, pool []domain.Correlation, target int) []domain.Question {
	if target <= 0 {
		target = DefaultTargetCount
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := NewGenerator(countries, pool, rng, PracticeConfig, NewExclusions())

	vars := dataset.Variables()
	varUse := make(map[string]int, len(vars))
	questions := make([]domain.Question, 0, target)

	for attempt := 0; attempt < attemptBudget && len(questions) < target; attempt++ {
		v := vars[rng.Intn(len(vars))]
		if varUse[v.Key] >= 2 {
			continue
		}
		kind := allKinds[rng.Intn(len(allKinds))]
		q, ok := gen.Generate(kind, v)
		if !ok {
			continue
		}
		questions = append(questions, q)
		if isValueKind(kind) {
			varUse[v.Key]++
		}
	}
	return questions
}

func isValueKind(kind domain.QuestionKind) bool {
	for _, k := range ValueKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DailyBuilder adapts the pure builders to the repository seam: it loads the
// dataset snapshot once and serves build requests from it.
type DailyBuilder struct {
	countries []domain.Country
	pool      []domain.Correlation
	target    int
}

func NewDailyBuilder(countries []domain.Country, pool []domain.Correlation, target int) *DailyBuilder {
	if target <= 0 {
		target = DefaultTargetCount
	}
	return &DailyBuilder{countries: countries, pool: pool, target: target}
}

func (b *DailyBuilder) BuildDaily(_ context.Context, date string) (domain.DailyQuiz, error) {
	return BuildDaily(b.countries, b.pool, date, b.target), nil
}

func (b *DailyBuilder) BuildPractice(_ context.Context) []domain.Question {
	return BuildPractice(b.countries, b.pool, b.target)
}
