package drafts

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{drafts: make(map[string]Draft)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, draft Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.drafts[draft.Token]
	if !ok {
		draft.CreatedAt = now
	} else {
		draft.CreatedAt = existing.CreatedAt
		if draft.Email == "" {
			draft.Email = existing.Email
		}
	}
	draft.LastActivityAt = now
	draft.UpdatedAt = now
	r.drafts[draft.Token] = draft
	return nil
}

func (r *MemoryRepo) GetByToken(ctx context.Context, token string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	draft, ok := r.drafts[token]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return draft, nil
}

func (r *MemoryRepo) SetEmail(ctx context.Context, token, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[token]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	draft.Email = email
	draft.LastActivityAt = now
	draft.UpdatedAt = now
	r.drafts[token] = draft
	return nil
}

func (r *MemoryRepo) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for token, draft := range r.drafts {
		if draft.Status == StatusDraft && draft.LastActivityAt.Before(cutoff) {
			delete(r.drafts, token)
			purged++
		}
	}
	return purged, nil
}

var _ Repo = (*MemoryRepo)(nil)
