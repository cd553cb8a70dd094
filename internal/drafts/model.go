package drafts

import "time"

// Status marks the lifecycle stage of a draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
)

// Draft maps an opaque draft token to stored form state. The token is
// immutable once created; exactly one Draft exists per token. Transition
// to finalized happens at submission time, outside this package, which
// only ever reads the status.
type Draft struct {
	Token          string    `json:"token"`
	StorageKey     string    `json:"-"`
	Step           int       `json:"step"`
	Status         Status    `json:"status"`
	Email          string    `json:"email,omitempty"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Payload is the serialized form state stored in object storage at
// drafts/{token}.json. Data holds whatever the wizard saved; Step is the
// current position.
type Payload struct {
	Data map[string]any `json:"data"`
	Step int            `json:"step"`
}
