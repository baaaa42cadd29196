package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CoinLedger keeps balances under coins:{identity} and dedupe claims under
// claim:{identity}:{ref}. INCRBY is atomic server-side, so concurrent credits
// never lose updates; the SETNX claim makes each ref apply at most once.
type CoinLedger struct {
	client *redis.Client
}

func NewCoinLedger(client *redis.Client) *CoinLedger {
	return &CoinLedger{client: client}
}

func (l *CoinLedger) Claim(ctx context.Context, identity, ref string) (bool, error) {
	claimed, err := l.client.SetNX(ctx, "claim:"+identity+":"+ref, "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("claim: %w", err)
	}
	return claimed, nil
}

func (l *CoinLedger) Add(ctx context.Context, identity string, amount int64) (int64, error) {
	balance, err := l.client.IncrBy(ctx, "coins:"+identity, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("credit coins: %w", err)
	}
	return balance, nil
}

func (l *CoinLedger) Balance(ctx context.Context, identity string) (int64, error) {
	balance, err := l.client.Get(ctx, "coins:"+identity).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}
