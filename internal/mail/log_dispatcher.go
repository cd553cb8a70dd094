package mail

import (
	"context"

	"grant-backend/internal/shared/telemetry"
)

// LogDispatcher is the non-production fallback when no sending identity is
// configured. It logs the message and reports not-ok so callers surface
// the embedded link through their own fallback logging.
type LogDispatcher struct{}

// Send logs the message instead of delivering it.
func (LogDispatcher) Send(ctx context.Context, msg Message) Result {
	telemetry.Info("mail.skipped", map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return Result{OK: false, Reason: "mail sender not configured"}
}

var _ Dispatcher = LogDispatcher{}
