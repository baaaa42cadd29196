package app

import (
	"context"

	"github.com/google/uuid"
)

// IdentityProvider hands out stable opaque identity tokens. Attempts and coin
// balances are keyed by these; they may be anonymous (device-bound).
type IdentityProvider interface {
	Ensure(ctx context.Context, existing string) (string, error)
}

// UUIDIdentityProvider issues anonymous UUID tokens and passes known tokens
// through untouched.
type UUIDIdentityProvider struct{}

func NewUUIDIdentityProvider() *UUIDIdentityProvider { return &UUIDIdentityProvider{} }

func (p *UUIDIdentityProvider) Ensure(_ context.Context, existing string) (string, error) {
	if existing != "" {
		return existing, nil
	}
	return uuid.NewString(), nil
}
