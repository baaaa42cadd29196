package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"truthle-quiz-service/internal/domain"
)

// PostbackService credits coin balances from third-party affiliate postbacks
// with the same idempotency and transactional-increment discipline as the
// play-reward path: verified signature, (identity, offer) dedupe, atomic add.
type PostbackService struct {
	ledger CoinLedger
	secret []byte
	log    *zap.Logger
}

func NewPostbackService(ledger CoinLedger, secret string, log *zap.Logger) *PostbackService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostbackService{ledger: ledger, secret: []byte(secret), log: log}
}

// Signature computes the expected shared-secret keyed hash for a postback.
func (s *PostbackService) Signature(identity, offerID string, amount int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d", identity, offerID, amount)
	return hex.EncodeToString(mac.Sum(nil))
}

// Credit verifies and applies one postback, returning the new balance.
// A repeated (identity, offer) pair yields ErrDuplicatePostback.
func (s *PostbackService) Credit(ctx context.Context, identity, offerID string, amount int64, signature string) (int64, error) {
	if identity == "" || offerID == "" || amount <= 0 {
		return 0, domain.ErrInvalidInput
	}
	expected := s.Signature(identity, offerID, amount)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return 0, domain.ErrBadSignature
	}

	claimed, err := s.ledger.Claim(ctx, identity, "postback:"+offerID)
	if err != nil {
		return 0, fmt.Errorf("postback claim: %w", err)
	}
	if !claimed {
		return 0, domain.ErrDuplicatePostback
	}

	balance, err := s.ledger.Add(ctx, identity, amount)
	if err != nil {
		return 0, fmt.Errorf("postback credit: %w", err)
	}
	s.log.Info("postback credited",
		zap.String("identity", identity), zap.String("offer", offerID), zap.Int64("amount", amount))
	return balance, nil
}
