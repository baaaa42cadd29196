package domain

import "time"

// QuestionKind discriminates the generator family a question came from.
type QuestionKind string

const (
	KindHighest       QuestionKind = "highest"
	KindLowest        QuestionKind = "lowest"
	KindCompare       QuestionKind = "compare"
	KindTrueFalse     QuestionKind = "true_false"
	KindGuessValue    QuestionKind = "guess_value"
	KindDirection     QuestionKind = "direction"
	KindYesNo         QuestionKind = "yes_no"
	KindStrongestPair QuestionKind = "strongest_pair"
)

// Question is an immutable multiple-choice question produced by a generator.
// Exactly one option is correct; IDs are stable for identical inputs.
type Question struct {
	ID           string       `json:"id"`
	Kind         QuestionKind `json:"kind"`
	Prompt       string       `json:"prompt"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correctIndex"`
	Explanation  string       `json:"explanation"`
	Difficulty   string       `json:"difficulty"`
	Category     string       `json:"category"`
	CategoryIcon string       `json:"categoryIcon"`
}

// DailyQuiz is the fixed question set for one calendar day (UTC YYYY-MM-DD).
// For a given date and dataset snapshot, regeneration is byte-for-byte identical.
type DailyQuiz struct {
	Date      string     `json:"date"`
	Questions []Question `json:"questions"`
}

// Country is one read-only record of the shared statistics dataset.
// Stats is a nested category -> field -> value map; leaves are numbers or
// strings, never arrays or objects. Missing fields are simply absent.
type Country struct {
	ISO3  string                    `json:"iso3"`
	Name  string                    `json:"name"`
	Stats map[string]map[string]any `json:"stats"`
}

// CorrelationStrength classifies |coefficient| into presentation buckets.
type CorrelationStrength string

const (
	StrengthModerate   CorrelationStrength = "moderate"
	StrengthStrong     CorrelationStrength = "strong"
	StrengthVeryStrong CorrelationStrength = "very_strong"
)

// Correlation is a precomputed linear association between two variables.
// The pool is a static external input; this service never computes coefficients.
type Correlation struct {
	Var1          string  `json:"var1"`
	Var2          string  `json:"var2"`
	Coefficient   float64 `json:"coefficient"`
	CrossCategory bool    `json:"crossCategory"`
	SampleSize    int     `json:"sampleSize"`
}

// Strength buckets the coefficient magnitude. Pairs below the moderate
// threshold are not quiz material.
func (c Correlation) Strength() CorrelationStrength {
	abs := c.Coefficient
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 0.8:
		return StrengthVeryStrong
	case abs >= 0.65:
		return StrengthStrong
	default:
		return StrengthModerate
	}
}

// PairKey is an order-insensitive identity for the variable pair.
func (c Correlation) PairKey() string {
	if c.Var1 < c.Var2 {
		return c.Var1 + "|" + c.Var2
	}
	return c.Var2 + "|" + c.Var1
}

// Attempt is the durable record of one identity's single play for one day.
// Created exactly once per (identity, date); later writes are no-ops.
type Attempt struct {
	Identity   string    `json:"identity"`
	Date       string    `json:"date"`
	Score      int       `json:"score"`
	Correct    []bool    `json:"correct"`
	Times      []float64 `json:"times"`
	Streak     int       `json:"streak"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Progress is the per-device aggregate mirrored from recorded attempts.
// Single-writer: only the attempt service mutates it.
type Progress struct {
	LastPlayed   string    `json:"lastPlayed"`
	TodayScore   int       `json:"todayScore"`
	TodayCorrect []bool    `json:"todayCorrect"`
	TodayTimes   []float64 `json:"todayTimes"`
	Streak       int       `json:"streak"`
	BestStreak   int       `json:"bestStreak"`
	GamesPlayed  int       `json:"gamesPlayed"`
	TotalCorrect int       `json:"totalCorrect"`
}

// BoardEntry is one identity's row on a daily leaderboard.
type BoardEntry struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// Board captures the ordered scoreboard for one calendar day.
type Board struct {
	Date      string       `json:"date"`
	Entries   []BoardEntry `json:"entries"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Subscriber is an identity that opted into daily reminders.
type Subscriber struct {
	Identity string `json:"identity"`
	Email    string `json:"email"`
}
