package drafts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"grant-backend/internal/shared/faults"
	"grant-backend/internal/shared/storage/object"
	sharedtoken "grant-backend/internal/shared/token"
)

// Service contains business logic for draft persistence. Serialized form
// state lives in object storage; the draft record tracks its location.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

func storageKeyFor(token string) string {
	return "drafts/" + token + ".json"
}

// Save serializes the payload to object storage and upserts the draft
// record. A missing token means a first save: a fresh one is generated.
func (s *Service) Save(ctx context.Context, token string, data map[string]any, step int) (Draft, error) {
	if data == nil {
		return Draft{}, fmt.Errorf("%w: data is required", faults.ErrInvalidInput)
	}
	if step < 0 {
		return Draft{}, fmt.Errorf("%w: step must be non-negative", faults.ErrInvalidInput)
	}
	if token == "" {
		token = sharedtoken.New()
	}

	payload := Payload{Data: data, Step: step}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: encode payload: %v", faults.ErrUpstream, err)
	}

	key := storageKeyFor(token)
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(raw)); err != nil {
		return Draft{}, fmt.Errorf("%w: store payload: %v", faults.ErrUpstream, err)
	}

	draft := Draft{
		Token:      token,
		StorageKey: key,
		Step:       step,
		Status:     StatusDraft,
	}
	if err := s.Repo.Upsert(ctx, draft); err != nil {
		return Draft{}, fmt.Errorf("%w: upsert draft: %v", faults.ErrUpstream, err)
	}

	return s.Get(ctx, token)
}

// Get returns the draft record for a token.
func (s *Service) Get(ctx context.Context, token string) (Draft, error) {
	draft, err := s.Repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Draft{}, fmt.Errorf("%w: draft %q", faults.ErrNotFound, token)
		}
		return Draft{}, fmt.Errorf("%w: get draft: %v", faults.ErrUpstream, err)
	}
	return draft, nil
}

// Load fetches and decodes the serialized payload for a token. The data
// object is returned as stored; file contents never pass through here.
func (s *Service) Load(ctx context.Context, token string) (map[string]any, int, error) {
	draft, err := s.Get(ctx, token)
	if err != nil {
		return nil, 0, err
	}
	if draft.StorageKey == "" {
		return nil, 0, fmt.Errorf("%w: draft %q has no stored payload", faults.ErrNotFound, token)
	}

	rc, err := s.Store.Open(ctx, draft.StorageKey)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: open payload: %v", faults.ErrUpstream, err)
	}
	defer rc.Close()

	var payload Payload
	if err := json.NewDecoder(rc).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("%w: decode payload: %v", faults.ErrUpstream, err)
	}

	step := payload.Step
	if step == 0 && draft.Step > 0 {
		step = draft.Step
	}
	return payload.Data, step, nil
}

// SetEmail records the applicant email on the draft and bumps activity.
func (s *Service) SetEmail(ctx context.Context, token, email string) error {
	if err := s.Repo.SetEmail(ctx, token, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: draft %q", faults.ErrNotFound, token)
		}
		return fmt.Errorf("%w: set email: %v", faults.ErrUpstream, err)
	}
	return nil
}
