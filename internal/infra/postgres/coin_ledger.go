package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CoinLedger keeps balances and dedupe claims in Postgres. Claim and Add use
// conditional insert / upsert-increment so concurrent writers cannot lose
// updates.
type CoinLedger struct {
	pool *pgxpool.Pool
}

func NewCoinLedger(pool *pgxpool.Pool) *CoinLedger {
	return &CoinLedger{pool: pool}
}

func (l *CoinLedger) Claim(ctx context.Context, identity, ref string) (bool, error) {
	tag, err := l.pool.Exec(ctx,
		`INSERT INTO coin_claims (identity, ref) VALUES ($1, $2)
		 ON CONFLICT (identity, ref) DO NOTHING`, identity, ref)
	if err != nil {
		return false, fmt.Errorf("claim: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (l *CoinLedger) Add(ctx context.Context, identity string, amount int64) (int64, error) {
	var balance int64
	err := l.pool.QueryRow(ctx,
		`INSERT INTO coin_balances (identity, balance) VALUES ($1, $2)
		 ON CONFLICT (identity) DO UPDATE SET balance = coin_balances.balance + EXCLUDED.balance
		 RETURNING balance`, identity, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("credit coins: %w", err)
	}
	return balance, nil
}

func (l *CoinLedger) Balance(ctx context.Context, identity string) (int64, error) {
	var balance int64
	err := l.pool.QueryRow(ctx,
		`SELECT balance FROM coin_balances WHERE identity=$1`, identity).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}
