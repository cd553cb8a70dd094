package submissions

import (
	"context"
	"errors"
)

// ErrNotFound indicates no submission exists for the token.
var ErrNotFound = errors.New("submission not found")

// Repo defines the read operations the admin panel needs.
type Repo interface {
	List(ctx context.Context, limit, offset int) ([]Submission, error)
	GetByToken(ctx context.Context, token string) (Submission, error)
}
