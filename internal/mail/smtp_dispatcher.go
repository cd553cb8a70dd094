package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"grant-backend/internal/shared/telemetry"
)

// SMTPDispatcher delivers mail over authenticated SMTP.
type SMTPDispatcher struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewSMTPDispatcher returns an SMTP-backed dispatcher, or nil if the
// sending identity is not configured. Absent configuration is a skip,
// not an error.
func NewSMTPDispatcher(host, port, username, password, from string) *SMTPDispatcher {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	return &SMTPDispatcher{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

// Send delivers the message. Failures are captured as a non-ok Result and
// logged; they never propagate to the caller.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) Result {
	if err := ctx.Err(); err != nil {
		return Result{OK: false, Reason: err.Error()}
	}
	if strings.TrimSpace(msg.To) == "" {
		return Result{OK: false, Reason: "recipient is empty"}
	}

	messageID := uuid.NewString()
	body := compose(d.From, messageID, msg)

	addr := d.Host + ":" + d.Port
	var auth smtp.Auth
	if d.Username != "" {
		auth = smtp.PlainAuth("", d.Username, d.Password, d.Host)
	}

	if err := smtp.SendMail(addr, auth, d.From, []string{msg.To}, body); err != nil {
		telemetry.Warn("mail.send.failed", map[string]any{
			"to":     msg.To,
			"reason": err.Error(),
		})
		return Result{OK: false, Reason: err.Error()}
	}

	telemetry.Info("mail.sent", map[string]any{
		"to":         msg.To,
		"message_id": messageID,
	})
	return Result{OK: true, MessageID: messageID}
}

func compose(from, messageID string, msg Message) []byte {
	boundary := "mixed-" + messageID

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: <%s>\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTML != "" && msg.Text != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.Text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTML)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	case msg.HTML != "":
		fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", msg.HTML)
	default:
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", msg.Text)
	}
	return []byte(b.String())
}

var _ Dispatcher = (*SMTPDispatcher)(nil)
