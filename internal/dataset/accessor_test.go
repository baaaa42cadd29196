package dataset_test

import (
	"context"
	"testing"

	"truthle-quiz-service/internal/dataset"
	"truthle-quiz-service/internal/domain"
)

func sampleCountry() domain.Country {
	return domain.Country{
		ISO3: "NOR",
		Name: "Norway",
		Stats: map[string]map[string]any{
			"health":   {"lifeExpectancy": 83.2},
			"economy":  {"gdpPerCapita": 89154.0},
			"religion": {"major": "Christianity"},
		},
	}
}

func TestLookup(t *testing.T) {
	c := sampleCountry()

	v, ok := dataset.Lookup(c, "health.lifeExpectancy")
	if !ok || v.(float64) != 83.2 {
		t.Fatalf("expected 83.2, got %v (ok=%v)", v, ok)
	}

	if _, ok := dataset.Lookup(c, "health.obesityRate"); ok {
		t.Fatalf("missing leaf must report not found")
	}
	if _, ok := dataset.Lookup(c, "nosuch.category"); ok {
		t.Fatalf("missing category must report not found")
	}
	if _, ok := dataset.Lookup(c, "religion.major.deeper"); ok {
		t.Fatalf("descending through a string leaf must report not found")
	}
	if _, ok := dataset.Lookup(domain.Country{}, "health.lifeExpectancy"); ok {
		t.Fatalf("nil stats must report not found")
	}
}

func TestNumberAndText(t *testing.T) {
	c := sampleCountry()

	if n, ok := dataset.Number(c, "economy.gdpPerCapita"); !ok || n != 89154.0 {
		t.Fatalf("expected 89154, got %v (ok=%v)", n, ok)
	}
	if _, ok := dataset.Number(c, "religion.major"); ok {
		t.Fatalf("string leaf must not read as a number")
	}
	if s, ok := dataset.Text(c, "religion.major"); !ok || s != "Christianity" {
		t.Fatalf("expected Christianity, got %q (ok=%v)", s, ok)
	}
	if _, ok := dataset.Text(c, "health.lifeExpectancy"); ok {
		t.Fatalf("numeric leaf must not read as text")
	}
}

func TestVariableRegistry(t *testing.T) {
	vars := dataset.Variables()
	if len(vars) == 0 {
		t.Fatalf("registry is empty")
	}
	seen := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		if v.Key == "" || v.Label == "" || v.Category == "" || v.Format == nil {
			t.Fatalf("incomplete registry entry %+v", v)
		}
		if _, dup := seen[v.Key]; dup {
			t.Fatalf("duplicate registry key %s", v.Key)
		}
		seen[v.Key] = struct{}{}
	}

	if _, ok := dataset.VariableByKey("health.lifeExpectancy"); !ok {
		t.Fatalf("expected life expectancy in the registry")
	}
	if got := dataset.LabelFor("health.lifeExpectancy"); got != "life expectancy" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := dataset.LabelFor("made.up"); got != "made.up" {
		t.Fatalf("unknown keys fall back to the raw key, got %q", got)
	}

	// mutating the returned slice must not leak into the registry
	vars[0].Key = "mutated"
	if fresh := dataset.Variables(); fresh[0].Key == "mutated" {
		t.Fatalf("Variables must return a copy")
	}
}

func TestStaticLoader(t *testing.T) {
	ctx := context.Background()
	loader := dataset.NewStaticLoader()

	countries, err := loader.LoadCountries(ctx)
	if err != nil {
		t.Fatalf("load countries: %v", err)
	}
	if len(countries) < 20 {
		t.Fatalf("expected a full snapshot, got %d countries", len(countries))
	}
	byISO := make(map[string]domain.Country, len(countries))
	for _, c := range countries {
		if c.ISO3 == "" || c.Name == "" {
			t.Fatalf("country missing identity: %+v", c)
		}
		byISO[c.ISO3] = c
	}
	// deliberate gaps in the snapshot stay gaps
	if nga, ok := byISO["NGA"]; ok {
		if _, has := dataset.Number(nga, "economy.giniIndex"); has {
			t.Fatalf("NGA gini index should be absent in the snapshot")
		}
	}

	correlations, err := loader.LoadCorrelations(ctx)
	if err != nil {
		t.Fatalf("load correlations: %v", err)
	}
	if len(correlations) < 10 {
		t.Fatalf("expected a usable correlation pool, got %d", len(correlations))
	}
	for _, c := range correlations {
		if c.Var1 == c.Var2 {
			t.Fatalf("self-correlation in pool: %+v", c)
		}
		if c.Coefficient < -1 || c.Coefficient > 1 {
			t.Fatalf("coefficient out of range: %+v", c)
		}
	}
}

func TestCorrelationStrength(t *testing.T) {
	cases := []struct {
		coeff float64
		want  domain.CorrelationStrength
	}{
		{0.85, domain.StrengthVeryStrong},
		{-0.85, domain.StrengthVeryStrong},
		{0.8, domain.StrengthVeryStrong},
		{0.79, domain.StrengthStrong},
		{0.65, domain.StrengthStrong},
		{0.64, domain.StrengthModerate},
		{-0.5, domain.StrengthModerate},
	}
	for _, tc := range cases {
		c := domain.Correlation{Coefficient: tc.coeff}
		if got := c.Strength(); got != tc.want {
			t.Fatalf("strength(%.2f) = %s, want %s", tc.coeff, got, tc.want)
		}
	}

	a := domain.Correlation{Var1: "x", Var2: "y"}
	b := domain.Correlation{Var1: "y", Var2: "x"}
	if a.PairKey() != b.PairKey() {
		t.Fatalf("pair key must be order-insensitive")
	}
}
