// Package audit records sensitive read operations, best-effort. Auditing
// must never be able to break the primary request path: every internal
// failure is swallowed and logged.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"grant-backend/internal/shared/telemetry"
)

// Outcomes for audited actions.
const (
	OutcomeOK     = "ok"
	OutcomeDenied = "denied"
	OutcomeError  = "error"
)

// Event is one audited access: who touched what key, when, and how it
// went. Actor is the admin email, a draft token, or "unknown".
type Event struct {
	ID          string
	Actor       string
	SourceIP    string
	Action      string
	ResourceKey string
	Outcome     string
	At          time.Time
}

// Store persists audit events.
type Store interface {
	Insert(ctx context.Context, ev Event) error
}

// Recorder writes events fire-and-forget. A nil Recorder is a no-op.
type Recorder struct {
	Store   Store
	Timeout time.Duration
}

// NewRecorder constructs a Recorder over a store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{Store: store, Timeout: 5 * time.Second}
}

// Record persists the event on a detached goroutine. Errors and panics
// are logged, never propagated.
func (r *Recorder) Record(ev Event) {
	if r == nil || r.Store == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Actor == "" {
		ev.Actor = "unknown"
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("audit.record.panic", map[string]any{"error": rec})
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := r.Store.Insert(ctx, ev); err != nil {
			telemetry.Warn("audit.record.failed", map[string]any{
				"action":       ev.Action,
				"resource_key": ev.ResourceKey,
				"error":        err.Error(),
			})
		}
	}()
}
