package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// Variable is one quiz-eligible statistic. The registry below is the closed
// set generators operate over; raw path strings only appear at the dataset
// boundary.
type Variable struct {
	Key          string // dot path into a country record
	Label        string // human phrase inserted into prompts, e.g. "life expectancy"
	Category     string
	CategoryIcon string
	Difficulty   string
	Format       func(v float64) string
}

func formatDecimal(digits int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', digits, 64)
	}
}

func formatYears(v float64) string   { return formatDecimal(1)(v) + " years" }
func formatPercent(v float64) string { return formatDecimal(1)(v) + "%" }

func formatDollars(v float64) string {
	return "$" + groupThousands(math.Round(v))
}

func formatCount(unit string) func(float64) string {
	return func(v float64) string {
		return groupThousands(math.Round(v)) + " " + unit
	}
}

func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func formatRate(unit string) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.1f %s", v, unit)
	}
}

var variables = []Variable{
	{Key: "health.lifeExpectancy", Label: "life expectancy", Category: "Health", CategoryIcon: "🏥", Difficulty: "easy", Format: formatYears},
	{Key: "health.obesityRate", Label: "obesity rate", Category: "Health", CategoryIcon: "🏥", Difficulty: "medium", Format: formatPercent},
	{Key: "health.alcoholConsumption", Label: "alcohol consumption per capita", Category: "Health", CategoryIcon: "🏥", Difficulty: "hard", Format: formatRate("litres/year")},
	{Key: "economy.gdpPerCapita", Label: "GDP per capita", Category: "Economy", CategoryIcon: "💰", Difficulty: "easy", Format: formatDollars},
	{Key: "economy.unemploymentRate", Label: "unemployment rate", Category: "Economy", CategoryIcon: "💰", Difficulty: "medium", Format: formatPercent},
	{Key: "economy.giniIndex", Label: "income inequality (Gini index)", Category: "Economy", CategoryIcon: "💰", Difficulty: "hard", Format: formatDecimal(1)},
	{Key: "lifestyle.internetUsers", Label: "share of internet users", Category: "Lifestyle", CategoryIcon: "🎛️", Difficulty: "easy", Format: formatPercent},
	{Key: "lifestyle.coffeeConsumption", Label: "coffee consumption per capita", Category: "Lifestyle", CategoryIcon: "🎛️", Difficulty: "hard", Format: formatRate("kg/year")},
	{Key: "lifestyle.workingHours", Label: "average annual working hours", Category: "Lifestyle", CategoryIcon: "🎛️", Difficulty: "medium", Format: formatCount("hours")},
	{Key: "demographics.medianAge", Label: "median age", Category: "Demographics", CategoryIcon: "👥", Difficulty: "medium", Format: formatYears},
	{Key: "demographics.fertilityRate", Label: "fertility rate", Category: "Demographics", CategoryIcon: "👥", Difficulty: "medium", Format: formatRate("children/woman")},
	{Key: "demographics.urbanPopulation", Label: "urban population share", Category: "Demographics", CategoryIcon: "👥", Difficulty: "medium", Format: formatPercent},
	{Key: "education.literacyRate", Label: "literacy rate", Category: "Education", CategoryIcon: "🎓", Difficulty: "easy", Format: formatPercent},
	{Key: "education.tertiaryEnrollment", Label: "tertiary education enrollment", Category: "Education", CategoryIcon: "🎓", Difficulty: "hard", Format: formatPercent},
	{Key: "crime.homicideRate", Label: "homicide rate", Category: "Crime", CategoryIcon: "🚨", Difficulty: "medium", Format: formatRate("per 100k")},
	{Key: "environment.co2PerCapita", Label: "CO₂ emissions per capita", Category: "Environment", CategoryIcon: "🌿", Difficulty: "medium", Format: formatRate("tonnes/year")},
	{Key: "environment.forestCover", Label: "forest cover", Category: "Environment", CategoryIcon: "🌿", Difficulty: "medium", Format: formatPercent},
	{Key: "democracy.democracyIndex", Label: "democracy index", Category: "Democracy", CategoryIcon: "🗳️", Difficulty: "hard", Format: formatDecimal(2)},
	{Key: "freedom.pressFreedom", Label: "press freedom score", Category: "Freedom", CategoryIcon: "📰", Difficulty: "hard", Format: formatDecimal(1)},
	{Key: "transport.carsPerThousand", Label: "cars per 1,000 people", Category: "Transport", CategoryIcon: "🚗", Difficulty: "medium", Format: formatCount("cars")},
}

var variableIndex = func() map[string]Variable {
	idx := make(map[string]Variable, len(variables))
	for _, v := range variables {
		idx[v.Key] = v
	}
	return idx
}()

// Variables returns a copy of the registry so callers can shuffle freely.
func Variables() []Variable {
	out := make([]Variable, len(variables))
	copy(out, variables)
	return out
}

// VariableByKey looks a registry entry up by its dot path.
func VariableByKey(key string) (Variable, bool) {
	v, ok := variableIndex[key]
	return v, ok
}

// LabelFor returns the registry label for a key, falling back to the raw key
// for pairs that reference variables outside the registry.
func LabelFor(key string) string {
	if v, ok := variableIndex[key]; ok {
		return v.Label
	}
	return key
}
