// Package dataset holds the read-only country statistics the quiz is built
// from: the dot-path accessor, the closed registry of quiz-eligible
// variables, and loaders for the embedded snapshot.
package dataset

import (
	"strings"

	"truthle-quiz-service/internal/domain"
)

// Lookup resolves a dot-delimited path (e.g. "health.lifeExpectancy") against
// a country record. Missing segments and non-map intermediates yield (nil,
// false); it never panics.
func Lookup(c domain.Country, path string) (any, bool) {
	segments := strings.Split(path, ".")
	if len(segments) == 0 {
		return nil, false
	}

	category, ok := c.Stats[segments[0]]
	if !ok {
		return nil, false
	}

	var current any = category
	for _, seg := range segments[1:] {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if len(segments) == 1 {
		return category, len(category) > 0
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// Number resolves a path to a numeric leaf. JSON decoding yields float64 for
// all numbers; ints appear when records are built in code.
func Number(c domain.Country, path string) (float64, bool) {
	v, ok := Lookup(c, path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Text resolves a path to a categorical string leaf such as "religion.major".
func Text(c domain.Country, path string) (string, bool) {
	v, ok := Lookup(c, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
