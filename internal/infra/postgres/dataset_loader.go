package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"truthle-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DatasetLoader loads the country snapshot and correlation pool from JSONB
// tables, replacing the embedded snapshot in production.
type DatasetLoader struct {
	pool *pgxpool.Pool
}

func NewDatasetLoader(pool *pgxpool.Pool) *DatasetLoader {
	return &DatasetLoader{pool: pool}
}

func (l *DatasetLoader) LoadCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM countries ORDER BY iso3`)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	defer rows.Close()

	var out []domain.Country
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		var c domain.Country
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("unmarshal country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (l *DatasetLoader) LoadCorrelations(ctx context.Context) ([]domain.Correlation, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM correlations`)
	if err != nil {
		return nil, fmt.Errorf("load correlations: %w", err)
	}
	defer rows.Close()

	var out []domain.Correlation
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan correlation: %w", err)
		}
		var c domain.Correlation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("unmarshal correlation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
