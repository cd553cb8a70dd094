package resume

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]TokenRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]TokenRecord)}
}

func (s *MemoryStore) Create(ctx context.Context, rec TokenRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.tokens[rec.Token] = rec
	return nil
}

// Consume serializes the check-then-write under the store mutex.
func (s *MemoryStore) Consume(ctx context.Context, token string, now time.Time) (TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return TokenRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[token]
	if !ok {
		return TokenRecord{}, ErrTokenNotFound
	}
	if rec.Used || !rec.ExpiresAt.After(now) {
		return TokenRecord{}, ErrTokenGone
	}
	rec.Used = true
	s.tokens[token] = rec
	return rec, nil
}

func (s *MemoryStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for token, rec := range s.tokens {
		if rec.ExpiresAt.Before(cutoff) {
			delete(s.tokens, token)
			purged++
		}
	}
	return purged, nil
}

var _ Store = (*MemoryStore)(nil)
