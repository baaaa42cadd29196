package dataset

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"truthle-quiz-service/internal/domain"
)

//go:embed data/countries.json
var countriesJSON []byte

//go:embed data/correlations.json
var correlationsJSON []byte

// Loader fetches the country snapshot from a backing store.
type Loader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
}

// CorrelationLoader fetches the precomputed correlation pool.
type CorrelationLoader interface {
	LoadCorrelations(ctx context.Context) ([]domain.Correlation, error)
}

// StaticLoader serves the checked-in snapshot. It is the default data source
// and the fallback when no database is configured.
type StaticLoader struct{}

func NewStaticLoader() *StaticLoader { return &StaticLoader{} }

func (l *StaticLoader) LoadCountries(_ context.Context) ([]domain.Country, error) {
	var out []domain.Country
	if err := json.Unmarshal(countriesJSON, &out); err != nil {
		return nil, fmt.Errorf("decode embedded countries: %w", err)
	}
	return out, nil
}

func (l *StaticLoader) LoadCorrelations(_ context.Context) ([]domain.Correlation, error) {
	var out []domain.Correlation
	if err := json.Unmarshal(correlationsJSON, &out); err != nil {
		return nil, fmt.Errorf("decode embedded correlations: %w", err)
	}
	return out, nil
}
