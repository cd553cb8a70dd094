package drafts

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no draft exists for the token.
var ErrNotFound = errors.New("draft not found")

// Repo defines persistence operations for drafts.
type Repo interface {
	Upsert(ctx context.Context, draft Draft) error
	GetByToken(ctx context.Context, token string) (Draft, error)
	// SetEmail records the applicant email and bumps the activity timestamp.
	SetEmail(ctx context.Context, token, email string) error
	// DeleteIdleBefore purges drafts whose last activity predates cutoff.
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
