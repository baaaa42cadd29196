package domain

import "errors"

var (
	// ErrInvalidInput indicates malformed arguments from a caller (e.g. mismatched
	// correctness/times lengths). Contract violation, not a runtime condition.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyPlayed is returned when an attempt exists for the (identity, date) pair.
	ErrAlreadyPlayed = errors.New("attempt already recorded for today")
	// ErrAttemptNotFound indicates no attempt is stored for the (identity, date) pair.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrBoardNotFound is returned when a daily leaderboard has not been initialized.
	ErrBoardNotFound = errors.New("leaderboard not found")
	// ErrBadSignature indicates a postback whose signature does not verify.
	ErrBadSignature = errors.New("postback signature mismatch")
	// ErrDuplicatePostback indicates a postback already credited for (identity, offer).
	ErrDuplicatePostback = errors.New("postback already credited")
	// ErrItemLocked is returned when a shop item requires an unlock condition.
	ErrItemLocked = errors.New("item is unlock-only, not purchasable")
	// ErrInsufficientCoins is returned when a purchase exceeds the balance.
	ErrInsufficientCoins = errors.New("insufficient coin balance")
)
