// Package postgres holds the durable pgx-backed stores and the dataset
// loader for production deployments.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"truthle-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore persists one JSONB document per (day, identity). Creation is
// ON CONFLICT DO NOTHING, matching the conditional-create contract.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Get(ctx context.Context, date, identity string) (domain.Attempt, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM attempts WHERE day=$1 AND identity=$2`, date, identity).Scan(&raw)
	if err == pgx.ErrNoRows {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, fmt.Errorf("load attempt: %w", err)
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(raw, &attempt); err != nil {
		return domain.Attempt{}, false, fmt.Errorf("unmarshal attempt: %w", err)
	}
	return attempt, true, nil
}

func (s *AttemptStore) Create(ctx context.Context, attempt domain.Attempt) (bool, error) {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return false, fmt.Errorf("marshal attempt: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO attempts (day, identity, data) VALUES ($1, $2, $3)
		 ON CONFLICT (day, identity) DO NOTHING`,
		attempt.Date, attempt.Identity, raw)
	if err != nil {
		return false, fmt.Errorf("insert attempt: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
