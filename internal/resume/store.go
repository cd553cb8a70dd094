package resume

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTokenNotFound indicates a token that was never issued.
	ErrTokenNotFound = errors.New("resume token not found")
	// ErrTokenGone indicates a token already used or past expiry.
	ErrTokenGone = errors.New("resume token used or expired")
)

// Store persists resume tokens. Consume is the security-critical
// operation: marking a token used must be atomic with the read that
// grants access, so two concurrent exchanges of one token cannot both
// succeed.
type Store interface {
	Create(ctx context.Context, rec TokenRecord) error
	// Consume atomically marks the token used and returns it. It reports
	// ErrTokenNotFound for unknown tokens and ErrTokenGone for tokens
	// already used or past expiry (expiry is checked before use-marking).
	Consume(ctx context.Context, token string, now time.Time) (TokenRecord, error)
	// DeleteExpiredBefore garbage-collects tokens past their expiry.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
