// Package scoring turns a completed run into a point total with a breakdown.
// It is independent of question generation.
package scoring

import (
	"math"

	"truthle-quiz-service/internal/domain"
)

const (
	pointsPerCorrect = 100
	// streak bonus: 5% per consecutive day, capped at 50%
	streakStep = 0.05
	streakCap  = 0.5
)

// speedTiers maps response-time upper bounds (exclusive) to bonus points.
// Only correct answers earn a speed bonus.
var speedTiers = []struct {
	below float64
	bonus int
}{
	{3, 50},
	{5, 40},
	{8, 30},
	{12, 20},
	{15, 10},
}

// Breakdown itemizes a scored run.
type Breakdown struct {
	Base           int     `json:"base"`
	SpeedBonus     int     `json:"speedBonus"`
	StreakBonus    int     `json:"streakBonus"`
	Total          int     `json:"total"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	AverageTime    float64 `json:"averageTime"`
	Streak         int     `json:"streak"`
}

// Score converts per-question correctness and response times plus the streak
// in effect into a point breakdown. The two slices must be the same length.
func Score(correct []bool, times []float64, streak int) (Breakdown, error) {
	if len(correct) != len(times) {
		return Breakdown{}, domain.ErrInvalidInput
	}

	b := Breakdown{TotalQuestions: len(correct), Streak: streak}
	var timeSum float64
	for i, ok := range correct {
		timeSum += times[i]
		if !ok {
			continue
		}
		b.CorrectCount++
		b.SpeedBonus += speedBonus(times[i])
	}
	b.Base = b.CorrectCount * pointsPerCorrect

	mult := float64(streak) * streakStep
	if mult > streakCap {
		mult = streakCap
	}
	if mult < 0 {
		mult = 0
	}
	b.StreakBonus = int(math.Round(float64(b.Base+b.SpeedBonus) * mult))
	b.Total = b.Base + b.SpeedBonus + b.StreakBonus
	if len(times) > 0 {
		b.AverageTime = timeSum / float64(len(times))
	}
	return b, nil
}

func speedBonus(seconds float64) int {
	for _, tier := range speedTiers {
		if seconds < tier.below {
			return tier.bonus
		}
	}
	return 0
}

// FastAnswerCount counts correct answers under the given threshold; the coin
// economy pays per fast answer.
func FastAnswerCount(correct []bool, times []float64, threshold float64) int {
	n := 0
	for i, ok := range correct {
		if ok && i < len(times) && times[i] < threshold {
			n++
		}
	}
	return n
}

// percentileTable maps total-score thresholds to an approximate "top N%"
// figure. Presentational only.
var percentileTable = []struct {
	atLeast int
	topPct  int
}{
	{1400, 1},
	{1300, 3},
	{1200, 5},
	{1100, 8},
	{1000, 12},
	{900, 18},
	{800, 25},
	{700, 35},
	{600, 48},
	{500, 62},
	{400, 75},
	{300, 88},
}

// Percentile estimates how a total ranks against the player base.
func Percentile(total int) int {
	for _, row := range percentileTable {
		if total >= row.atLeast {
			return row.topPct
		}
	}
	return 98
}
