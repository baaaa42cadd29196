package quizgen

import (
	"fmt"
	"math"
	"sort"

	"truthle-quiz-service/internal/dataset"
	"truthle-quiz-service/internal/domain"
)

// GenConfig carries the pool thresholds that differ between the daily and
// practice call sites. The daily preset demands larger pools so wrong answers
// stay unambiguous; the practice preset trades that for coverage on small
// datasets.
type GenConfig struct {
	// ExtremeMinPool is the minimum number of countries with a non-null value
	// for highest/lowest (and true/false) questions.
	ExtremeMinPool int
	// ExtremeDistractorSkip excludes the top N entries from the distractor
	// pool so near-ties never appear as wrong answers.
	ExtremeDistractorSkip int
	// CompareMinPool is the minimum pool for compare questions.
	CompareMinPool int
	// CompareLoose switches compare from top-third/bottom-third windows to
	// the looser top-fifth/bottom-two-thirds windows.
	CompareLoose bool
	// YesNoRealProbability is the chance a yes_no question uses a genuinely
	// correlated pair rather than a curated uncorrelated one.
	YesNoRealProbability float64
}

// DailyConfig is the preset for the shared, date-seeded daily set.
var DailyConfig = GenConfig{
	ExtremeMinPool:        10,
	ExtremeDistractorSkip: 10,
	CompareMinPool:        20,
	CompareLoose:          false,
	YesNoRealProbability:  0.6,
}

// PracticeConfig is the preset for the on-demand practice surface.
var PracticeConfig = GenConfig{
	ExtremeMinPool:        4,
	ExtremeDistractorSkip: 5,
	CompareMinPool:        2,
	CompareLoose:          true,
	YesNoRealProbability:  0.6,
}

// Exclusions is the shared anti-repetition state threaded through every
// generator call in a session: subject countries and correlation pairs are
// never reused.
type Exclusions struct {
	countries map[string]struct{}
	pairs     map[string]struct{}
}

func NewExclusions() *Exclusions {
	return &Exclusions{
		countries: make(map[string]struct{}),
		pairs:     make(map[string]struct{}),
	}
}

func (e *Exclusions) useCountry(iso3 string) { e.countries[iso3] = struct{}{} }
func (e *Exclusions) usePair(key string)     { e.pairs[key] = struct{}{} }

func (e *Exclusions) countryUsed(iso3 string) bool {
	_, ok := e.countries[iso3]
	return ok
}

func (e *Exclusions) pairUsed(key string) bool {
	_, ok := e.pairs[key]
	return ok
}

// uncorrelatedPairs is the curated list of genuinely unrelated variable pairs
// used as "No" cases by the yes_no generator.
var uncorrelatedPairs = [][2]string{
	{"lifestyle.coffeeConsumption", "crime.homicideRate"},
	{"environment.forestCover", "demographics.medianAge"},
	{"transport.carsPerThousand", "health.alcoholConsumption"},
	{"health.obesityRate", "environment.forestCover"},
	{"lifestyle.workingHours", "environment.forestCover"},
	{"demographics.urbanPopulation", "health.alcoholConsumption"},
}

// Generator builds one question at a time over a fixed dataset snapshot.
// A nil/false return is the soft insufficient-data signal, never an error.
type Generator struct {
	countries []domain.Country
	pool      []domain.Correlation
	rng       Rand
	cfg       GenConfig
	excl      *Exclusions
}

func NewGenerator(countries []domain.Country, pool []domain.Correlation, rng Rand, cfg GenConfig, excl *Exclusions) *Generator {
	if excl == nil {
		excl = NewExclusions()
	}
	return &Generator{countries: countries, pool: pool, rng: rng, cfg: cfg, excl: excl}
}

// ValueKinds lists the generator kinds that consume a dataset variable.
var ValueKinds = []domain.QuestionKind{
	domain.KindHighest,
	domain.KindLowest,
	domain.KindCompare,
	domain.KindTrueFalse,
	domain.KindGuessValue,
}

// CorrelationKinds lists the generator kinds that consume the correlation pool.
var CorrelationKinds = []domain.QuestionKind{
	domain.KindDirection,
	domain.KindYesNo,
	domain.KindStrongestPair,
}

// Generate dispatches to the generator for kind. Value kinds read v;
// correlation kinds ignore it and draw from the pool.
func (g *Generator) Generate(kind domain.QuestionKind, v dataset.Variable) (domain.Question, bool) {
	switch kind {
	case domain.KindHighest:
		return g.extreme(v, true)
	case domain.KindLowest:
		return g.extreme(v, false)
	case domain.KindCompare:
		return g.compare(v)
	case domain.KindTrueFalse:
		return g.trueFalse(v)
	case domain.KindGuessValue:
		return g.guessValue(v)
	case domain.KindDirection:
		return g.direction()
	case domain.KindYesNo:
		return g.yesNo()
	case domain.KindStrongestPair:
		return g.strongestPair()
	default:
		return domain.Question{}, false
	}
}

type valueEntry struct {
	country domain.Country
	value   float64
}

// entries returns the countries holding a numeric value for v, sorted
// descending, with already-used subjects filtered out.
func (g *Generator) entries(v dataset.Variable) []valueEntry {
	out := make([]valueEntry, 0, len(g.countries))
	for _, c := range g.countries {
		if g.excl.countryUsed(c.ISO3) {
			continue
		}
		if val, ok := dataset.Number(c, v.Key); ok {
			out = append(out, valueEntry{country: c, value: val})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].value != out[j].value {
			return out[i].value > out[j].value
		}
		return out[i].country.ISO3 < out[j].country.ISO3
	})
	return out
}

func (g *Generator) extreme(v dataset.Variable, highest bool) (domain.Question, bool) {
	entries := g.entries(v)
	if len(entries) < g.cfg.ExtremeMinPool {
		return domain.Question{}, false
	}
	if !highest {
		// ascending view of the same sorted slice
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	correct := entries[0]
	skip := g.cfg.ExtremeDistractorSkip
	if skip >= len(entries) {
		skip = len(entries) - 1
	}
	distractorPool := entries[skip:]
	if len(distractorPool) < 3 {
		return domain.Question{}, false
	}

	picks := pickDistinct(g.rng, len(distractorPool), 3)
	options := []string{correct.country.Name}
	for _, i := range picks {
		options = append(options, distractorPool[i].country.Name)
	}
	correctIdx := shuffleTracking(g.rng, options, 0)

	word := "highest"
	kind := domain.KindHighest
	if !highest {
		word = "lowest"
		kind = domain.KindLowest
	}
	g.excl.useCountry(correct.country.ISO3)

	return domain.Question{
		ID:           fmt.Sprintf("%s-%s", kind, v.Key),
		Kind:         kind,
		Prompt:       fmt.Sprintf("Which country has the %s %s?", word, v.Label),
		Options:      options,
		CorrectIndex: correctIdx,
		Explanation:  fmt.Sprintf("%s has the %s %s at %s.", correct.country.Name, word, v.Label, v.Format(correct.value)),
		Difficulty:   v.Difficulty,
		Category:     v.Category,
		CategoryIcon: v.CategoryIcon,
	}, true
}

func (g *Generator) compare(v dataset.Variable) (domain.Question, bool) {
	entries := g.entries(v)
	if len(entries) < g.cfg.CompareMinPool || len(entries) < 2 {
		return domain.Question{}, false
	}

	var hiWindow, loStart int
	if g.cfg.CompareLoose {
		hiWindow = max(1, len(entries)/5)
		loStart = len(entries) / 3
	} else {
		hiWindow = max(1, len(entries)/3)
		loStart = len(entries) - len(entries)/3
	}
	if loStart <= hiWindow {
		loStart = hiWindow
	}
	if loStart >= len(entries) {
		loStart = len(entries) - 1
	}

	high := entries[g.rng.Intn(hiWindow)]
	low := entries[loStart+g.rng.Intn(len(entries)-loStart)]
	if high.country.ISO3 == low.country.ISO3 || high.value <= low.value {
		return domain.Question{}, false
	}

	options := []string{high.country.Name, low.country.Name}
	correctIdx := 0
	if g.rng.Float64() < 0.5 {
		options[0], options[1] = options[1], options[0]
		correctIdx = 1
	}
	g.excl.useCountry(high.country.ISO3)
	g.excl.useCountry(low.country.ISO3)

	return domain.Question{
		ID:           fmt.Sprintf("%s-%s", domain.KindCompare, v.Key),
		Kind:         domain.KindCompare,
		Prompt:       fmt.Sprintf("Which country has the higher %s?", v.Label),
		Options:      options,
		CorrectIndex: correctIdx,
		Explanation: fmt.Sprintf("%s: %s vs %s: %s.",
			high.country.Name, v.Format(high.value), low.country.Name, v.Format(low.value)),
		Difficulty:   v.Difficulty,
		Category:     v.Category,
		CategoryIcon: v.CategoryIcon,
	}, true
}

func (g *Generator) trueFalse(v dataset.Variable) (domain.Question, bool) {
	entries := g.entries(v)
	if len(entries) < g.cfg.ExtremeMinPool || len(entries) < 2 {
		return domain.Question{}, false
	}

	half := len(entries) / 2
	a := entries[g.rng.Intn(half)]
	b := entries[half+g.rng.Intn(len(entries)-half)]
	if a.country.ISO3 == b.country.ISO3 || a.value == b.value {
		return domain.Question{}, false
	}

	// The statement names a first and b second; a 50/50 draw decides whether
	// it claims the true direction.
	first, second := a, b
	statementTrue := g.rng.Float64() < 0.5
	if !statementTrue {
		first, second = b, a
	}
	correctIdx := 0 // "True"
	if first.value < second.value {
		correctIdx = 1 // statement claims first is higher, which is false
	}

	g.excl.useCountry(a.country.ISO3)
	g.excl.useCountry(b.country.ISO3)

	return domain.Question{
		ID:           fmt.Sprintf("%s-%s", domain.KindTrueFalse, v.Key),
		Kind:         domain.KindTrueFalse,
		Prompt:       fmt.Sprintf("True or false: %s has a higher %s than %s.", first.country.Name, v.Label, second.country.Name),
		Options:      []string{"True", "False"},
		CorrectIndex: correctIdx,
		Explanation: fmt.Sprintf("%s: %s, %s: %s.",
			a.country.Name, v.Format(a.value), b.country.Name, v.Format(b.value)),
		Difficulty:   v.Difficulty,
		Category:     v.Category,
		CategoryIcon: v.CategoryIcon,
	}, true
}

func (g *Generator) guessValue(v dataset.Variable) (domain.Question, bool) {
	entries := g.entries(v)
	if len(entries) == 0 {
		return domain.Question{}, false
	}

	pick := entries[g.rng.Intn(len(entries))]
	options, correctIdx := g.guessOptions(v, pick.value)
	if len(dedupe(options)) < len(options) {
		// Formatted collisions are rare and cosmetic; retry once with a fresh
		// shuffle, then accept whatever we got.
		options, correctIdx = g.guessOptions(v, pick.value)
	}
	g.excl.useCountry(pick.country.ISO3)

	return domain.Question{
		ID:           fmt.Sprintf("%s-%s", domain.KindGuessValue, v.Key),
		Kind:         domain.KindGuessValue,
		Prompt:       fmt.Sprintf("What is the %s of %s?", v.Label, pick.country.Name),
		Options:      options,
		CorrectIndex: correctIdx,
		Explanation:  fmt.Sprintf("The %s of %s is %s.", v.Label, pick.country.Name, v.Format(pick.value)),
		Difficulty:   v.Difficulty,
		Category:     v.Category,
		CategoryIcon: v.CategoryIcon,
	}, true
}

func (g *Generator) guessOptions(v dataset.Variable, value float64) ([]string, int) {
	factors := []float64{1.0, 1.3, 0.7, 1.6}
	options := make([]string, 0, len(factors))
	for _, f := range factors {
		options = append(options, v.Format(math.Max(0, value*f)))
	}
	return options, shuffleTracking(g.rng, options, 0)
}

func (g *Generator) direction() (domain.Question, bool) {
	candidates := g.pairCandidates(func(c domain.Correlation) bool {
		s := c.Strength()
		return c.CrossCategory && (s == domain.StrengthStrong || s == domain.StrengthVeryStrong)
	})
	if len(candidates) == 0 {
		return domain.Question{}, false
	}

	pick := candidates[g.rng.Intn(len(candidates))]
	correctIdx := 0
	if pick.Coefficient < 0 {
		correctIdx = 1
	}
	g.excl.usePair(pick.PairKey())

	return domain.Question{
		ID:   fmt.Sprintf("%s-%s", domain.KindDirection, pick.PairKey()),
		Kind: domain.KindDirection,
		Prompt: fmt.Sprintf("Across countries, how are %s and %s related?",
			dataset.LabelFor(pick.Var1), dataset.LabelFor(pick.Var2)),
		Options:      []string{"Positively correlated", "Negatively correlated", "Not significantly correlated"},
		CorrectIndex: correctIdx,
		Explanation: fmt.Sprintf("The correlation coefficient is %.2f over %d countries.",
			pick.Coefficient, pick.SampleSize),
		Difficulty:   "hard",
		Category:     "Correlations",
		CategoryIcon: "🔗",
	}, true
}

func (g *Generator) yesNo() (domain.Question, bool) {
	if g.rng.Float64() < g.cfg.YesNoRealProbability {
		candidates := g.pairCandidates(func(c domain.Correlation) bool {
			return math.Abs(c.Coefficient) >= 0.5
		})
		if len(candidates) > 0 {
			pick := candidates[g.rng.Intn(len(candidates))]
			g.excl.usePair(pick.PairKey())
			return domain.Question{
				ID:   fmt.Sprintf("%s-%s", domain.KindYesNo, pick.PairKey()),
				Kind: domain.KindYesNo,
				Prompt: fmt.Sprintf("Are %s and %s significantly correlated across countries?",
					dataset.LabelFor(pick.Var1), dataset.LabelFor(pick.Var2)),
				Options:      []string{"Yes", "No"},
				CorrectIndex: 0,
				Explanation: fmt.Sprintf("They correlate at %.2f over %d countries.",
					pick.Coefficient, pick.SampleSize),
				Difficulty:   "medium",
				Category:     "Correlations",
				CategoryIcon: "🔗",
			}, true
		}
		// fall through to a curated "No" pair
	}

	open := make([][2]string, 0, len(uncorrelatedPairs))
	for _, p := range uncorrelatedPairs {
		if !g.excl.pairUsed(pairKey(p[0], p[1])) {
			open = append(open, p)
		}
	}
	if len(open) == 0 {
		return domain.Question{}, false
	}
	pick := open[g.rng.Intn(len(open))]
	g.excl.usePair(pairKey(pick[0], pick[1]))

	return domain.Question{
		ID:   fmt.Sprintf("%s-%s", domain.KindYesNo, pairKey(pick[0], pick[1])),
		Kind: domain.KindYesNo,
		Prompt: fmt.Sprintf("Are %s and %s significantly correlated across countries?",
			dataset.LabelFor(pick[0]), dataset.LabelFor(pick[1])),
		Options:      []string{"Yes", "No"},
		CorrectIndex: 1,
		Explanation:  "No meaningful correlation shows up between these two statistics.",
		Difficulty:   "medium",
		Category:     "Correlations",
		CategoryIcon: "🔗",
	}, true
}

func (g *Generator) strongestPair() (domain.Question, bool) {
	var strongest []domain.Correlation
	var distractors []domain.Correlation
	for _, c := range g.pool {
		if !c.CrossCategory || g.excl.pairUsed(c.PairKey()) {
			continue
		}
		if c.Strength() == domain.StrengthVeryStrong {
			strongest = append(strongest, c)
		} else {
			distractors = append(distractors, c)
		}
	}
	if len(strongest) == 0 || len(distractors) < 3 {
		return domain.Question{}, false
	}

	winner := strongest[g.rng.Intn(len(strongest))]
	picks := pickDistinct(g.rng, len(distractors), 3)
	options := []string{pairLabel(winner)}
	for _, i := range picks {
		options = append(options, pairLabel(distractors[i]))
	}
	correctIdx := shuffleTracking(g.rng, options, 0)
	g.excl.usePair(winner.PairKey())

	return domain.Question{
		ID:           fmt.Sprintf("%s-%s", domain.KindStrongestPair, winner.PairKey()),
		Kind:         domain.KindStrongestPair,
		Prompt:       "Which of these pairs of statistics is the most strongly related across countries?",
		Options:      options,
		CorrectIndex: correctIdx,
		Explanation: fmt.Sprintf("%s correlate at %.2f, the strongest of the four.",
			pairLabel(winner), winner.Coefficient),
		Difficulty:   "hard",
		Category:     "Correlations",
		CategoryIcon: "🔗",
	}, true
}

func (g *Generator) pairCandidates(keep func(domain.Correlation) bool) []domain.Correlation {
	out := make([]domain.Correlation, 0, len(g.pool))
	for _, c := range g.pool {
		if g.excl.pairUsed(c.PairKey()) {
			continue
		}
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func pairLabel(c domain.Correlation) string {
	return dataset.LabelFor(c.Var1) + " × " + dataset.LabelFor(c.Var2)
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// pickDistinct draws k distinct indexes from [0, n) without replacement.
func pickDistinct(rng Rand, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx[:k]
}

// shuffleTracking shuffles options in place and returns the new position of
// the element that started at track.
func shuffleTracking(rng Rand, options []string, track int) int {
	pos := track
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch pos {
		case i:
			pos = j
		case j:
			pos = i
		}
	})
	return pos
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
