// Package mail delivers transactional email carrying token links. Delivery
// is pluggable and never fails the parent operation: every backend reports
// a Result instead of returning an error.
package mail

import "context"

// Message is a single outbound transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Result reports the outcome of a send attempt. OK=false carries a Reason
// so callers can log a fallback link instead of failing the request.
type Result struct {
	OK        bool
	MessageID string
	Reason    string
}

// Dispatcher sends a message to an address.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) Result
}
