package resume

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"grant-backend/internal/drafts"
	"grant-backend/internal/mail"
	"grant-backend/internal/shared/faults"
	"grant-backend/internal/shared/telemetry"
	sharedtoken "grant-backend/internal/shared/token"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service orchestrates the applicant session continuity flow: send-link,
// exchange, get-draft, whoami, logout.
type Service struct {
	Drafts *drafts.Service
	Store  Store
	Mail   mail.Dispatcher

	// APIBaseURL roots the exchange link; PublicBaseURL is the landing
	// page after a successful exchange. Either may be empty, in which
	// case links degrade to bare relative paths. That is an operational
	// concern, not a security one.
	APIBaseURL    string
	PublicBaseURL string

	TokenTTL time.Duration
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

// SendLink issues a fresh single-use resume token for the draft and mails
// the applicant an exchange link. The response never leaks whether the
// email was previously known; mail failures degrade to logging the link.
func (s *Service) SendLink(ctx context.Context, email, draftToken string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: email is not a valid address", faults.ErrInvalidInput)
	}
	if draftToken == "" {
		return fmt.Errorf("%w: token is required", faults.ErrInvalidInput)
	}

	if _, err := s.Drafts.Get(ctx, draftToken); err != nil {
		return err
	}

	rec := TokenRecord{
		Token:      sharedtoken.New(),
		DraftToken: draftToken,
		Email:      email,
		ExpiresAt:  s.now().Add(s.tokenTTL()),
	}
	if err := s.Store.Create(ctx, rec); err != nil {
		return fmt.Errorf("%w: store resume token: %v", faults.ErrUpstream, err)
	}

	link := s.exchangeURL(rec.Token)
	res := s.Mail.Send(ctx, mail.Message{
		To:      email,
		Subject: "Resume your grant application",
		Text:    "Pick up your application where you left off: " + link + "\nThis link can be used once and expires in 24 hours.",
		HTML:    `<p>Pick up your application where you left off:</p><p><a href="` + link + `">Resume application</a></p><p>This link can be used once and expires in 24 hours.</p>`,
	})
	if !res.OK {
		telemetry.Info("resume.link.fallback", map[string]any{
			"email":  email,
			"link":   link,
			"reason": res.Reason,
		})
	}

	if err := s.Drafts.SetEmail(ctx, draftToken, email); err != nil {
		return err
	}
	return nil
}

// Exchange consumes a resume token and returns the draft token it grants.
// Consumption and the grant of access are a single atomic step in the
// store; replays of the same token observe Gone.
func (s *Service) Exchange(ctx context.Context, resumeToken string) (string, error) {
	if resumeToken == "" {
		return "", fmt.Errorf("%w: rt is required", faults.ErrInvalidInput)
	}

	rec, err := s.Store.Consume(ctx, resumeToken, s.now())
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			return "", fmt.Errorf("%w: resume token", faults.ErrNotFound)
		case errors.Is(err, ErrTokenGone):
			return "", fmt.Errorf("%w: resume token", faults.ErrGone)
		default:
			return "", fmt.Errorf("%w: consume resume token: %v", faults.ErrUpstream, err)
		}
	}
	return rec.DraftToken, nil
}

// LoadDraft rehydrates the stored form state for a draft token, merging
// the current step into the data object.
func (s *Service) LoadDraft(ctx context.Context, draftToken string) (map[string]any, error) {
	if draftToken == "" {
		return nil, fmt.Errorf("%w: no draft token resolvable", faults.ErrInvalidInput)
	}
	data, step, err := s.Drafts.Load(ctx, draftToken)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["step"] = step
	return out, nil
}

func (s *Service) exchangeURL(resumeToken string) string {
	base := s.APIBaseURL
	if base == "" {
		base = s.PublicBaseURL
	}
	return base + "/api/v1/resume/exchange?rt=" + url.QueryEscape(resumeToken)
}

// LandingURL is where a successful exchange redirects, with a marker the
// front end reads to show the resumed state.
func (s *Service) LandingURL() string {
	return s.PublicBaseURL + "/?resumed=1"
}
