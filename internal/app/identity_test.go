package app_test

import (
	"context"
	"testing"

	"truthle-quiz-service/internal/app"
)

func TestIdentityProvider(t *testing.T) {
	ctx := context.Background()
	provider := app.NewUUIDIdentityProvider()

	existing, err := provider.Ensure(ctx, "keep-me")
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if existing != "keep-me" {
		t.Fatalf("existing identity must pass through, got %q", existing)
	}

	fresh, err := provider.Ensure(ctx, "")
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if fresh == "" {
		t.Fatalf("expected a generated identity")
	}
	second, _ := provider.Ensure(ctx, "")
	if second == fresh {
		t.Fatalf("generated identities must be unique")
	}
}
