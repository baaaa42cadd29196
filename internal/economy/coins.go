// Package economy maps gameplay events to virtual-coin amounts and holds the
// shop catalog of purchasable goods.
package economy

const (
	dailyPlayCoins   = 10
	perCorrectCoins  = 5
	perFastCoins     = 2
	perfectRunCoins  = 50
	firstPlayCoins   = 100
	shareCoins       = 25
	// FastThresholdSeconds is the cutoff under which a correct answer counts
	// as fast for coin purposes.
	FastThresholdSeconds = 5.0
)

// streakMilestones pays a flat bonus at streak lengths, non-cumulative: only
// the highest milestone met applies. Ordered descending for the lookup.
var streakMilestones = []struct {
	days  int
	coins int
}{
	{100, 1000},
	{30, 300},
	{14, 150},
	{7, 75},
	{3, 30},
}

// Breakdown itemizes a coin award.
type Breakdown struct {
	DailyPlay       int `json:"dailyPlay"`
	Correct         int `json:"correct"`
	Fast            int `json:"fast"`
	Perfect         int `json:"perfect"`
	StreakMilestone int `json:"streakMilestone"`
	FirstPlay       int `json:"firstPlay"`
	Share           int `json:"share"`
}

// Award is a coin total plus its itemized breakdown.
type Award struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// Earn computes the coin award for one recorded play.
func Earn(correctCount, fastAnswerCount, streak int, isPerfect, isFirstPlay, didShare bool) Award {
	b := Breakdown{
		DailyPlay: dailyPlayCoins,
		Correct:   correctCount * perCorrectCoins,
		Fast:      fastAnswerCount * perFastCoins,
	}
	if isPerfect {
		b.Perfect = perfectRunCoins
	}
	for _, m := range streakMilestones {
		if streak >= m.days {
			b.StreakMilestone = m.coins
			break
		}
	}
	if isFirstPlay {
		b.FirstPlay = firstPlayCoins
	}
	if didShare {
		b.Share = shareCoins
	}

	return Award{
		Total:     b.DailyPlay + b.Correct + b.Fast + b.Perfect + b.StreakMilestone + b.FirstPlay + b.Share,
		Breakdown: b,
	}
}
