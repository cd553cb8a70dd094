package adminauth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"grant-backend/internal/mail"
	"grant-backend/internal/shared/faults"
	"grant-backend/internal/shared/telemetry"
)

// Config declares everything the authenticator needs. It is validated
// once at construction; a process with an invalid Config must not serve.
type Config struct {
	// AdminEmails is the case-insensitive allow-list.
	AdminEmails []string
	// MagicSecret and SessionSecret must differ; a token of one class
	// must never verify as the other.
	MagicSecret   string
	SessionSecret string
	MagicTTL      time.Duration
	SessionTTL    time.Duration
	// UIBaseURL roots the login link placed in the mail.
	UIBaseURL string
	// ResendInterval is the minimum gap between accepted magic-link
	// requests for one email.
	ResendInterval time.Duration
}

// Service issues and verifies magic and session tokens for staff access.
// Both token classes are stateless: validation is signature plus expiry,
// with no server-side revocation list. A captured magic token stays valid
// until its short TTL lapses; accepted residual risk.
type Service struct {
	cfg     Config
	allow   map[string]struct{}
	limiter RequestLimiter
	mail    mail.Dispatcher
	now     func() time.Time
}

// New validates the configuration and builds a Service.
func New(cfg Config, limiter RequestLimiter, dispatcher mail.Dispatcher, now func() time.Time) (*Service, error) {
	if strings.TrimSpace(cfg.MagicSecret) == "" {
		return nil, fmt.Errorf("adminauth: magic secret is required")
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return nil, fmt.Errorf("adminauth: session secret is required")
	}
	if cfg.MagicSecret == cfg.SessionSecret {
		return nil, fmt.Errorf("adminauth: magic and session secrets must differ")
	}
	if cfg.MagicTTL <= 0 {
		cfg.MagicTTL = 15 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.ResendInterval <= 0 {
		cfg.ResendInterval = 60 * time.Second
	}
	if limiter == nil {
		limiter = NewMemoryLimiter(nil)
	}
	if dispatcher == nil {
		dispatcher = mail.LogDispatcher{}
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	allow := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		normalized := normalizeEmail(email)
		if normalized != "" {
			allow[normalized] = struct{}{}
		}
	}

	return &Service{
		cfg:     cfg,
		allow:   allow,
		limiter: limiter,
		mail:    dispatcher,
		now:     now,
	}, nil
}

// RequestMagicLink signs a short-lived magic token for an allow-listed
// email and mails a login link. The allow-list check happens before any
// delivery attempt; delivery failure degrades to logging the link.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return fmt.Errorf("%w: email is required", faults.ErrInvalidInput)
	}
	if !s.allowed(normalized) {
		return fmt.Errorf("%w: email is not allow-listed", faults.ErrForbidden)
	}

	ok, err := s.limiter.Allow(ctx, normalized, s.cfg.ResendInterval)
	if err != nil {
		return fmt.Errorf("%w: rate limit check: %v", faults.ErrUpstream, err)
	}
	if !ok {
		return fmt.Errorf("%w: magic link requested too recently", faults.ErrRateLimited)
	}

	magicToken, err := signToken([]byte(s.cfg.MagicSecret), normalized, TypeMagic, "", s.cfg.MagicTTL, s.now())
	if err != nil {
		return fmt.Errorf("%w: sign magic token: %v", faults.ErrUpstream, err)
	}

	link := s.cfg.UIBaseURL + "/admin/login?token=" + url.QueryEscape(magicToken)
	res := s.mail.Send(ctx, mail.Message{
		To:      normalized,
		Subject: "Your admin sign-in link",
		Text:    "Sign in to the grant review panel: " + link + "\nThe link expires in " + s.cfg.MagicTTL.String() + ".",
		HTML:    `<p>Sign in to the grant review panel:</p><p><a href="` + link + `">Sign in</a></p><p>The link expires in ` + s.cfg.MagicTTL.String() + `.</p>`,
	})
	if !res.OK {
		telemetry.Info("adminauth.magic_link.fallback", map[string]any{
			"email":  normalized,
			"link":   link,
			"reason": res.Reason,
		})
	}
	return nil
}

// VerifyMagicLink exchanges a valid magic token for a fresh session
// token. Verification errors are collapsed to Unauthorized so callers
// cannot tell which check failed; only a wrong type discriminator is
// reported distinctly, as it indicates a misrouted token, not a bad one.
func (s *Service) VerifyMagicLink(ctx context.Context, raw string) (string, time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return "", time.Time{}, fmt.Errorf("%w: token is required", faults.ErrInvalidInput)
	}

	claims, err := verifyToken([]byte(s.cfg.MagicSecret), raw, s.now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: magic token", faults.ErrUnauthorized)
	}
	if claims.Typ != TypeMagic {
		return "", time.Time{}, fmt.Errorf("%w: wrong token type", faults.ErrInvalidInput)
	}
	// Re-check the allow-list: it may have changed since issuance.
	if !s.allowed(claims.Email) {
		return "", time.Time{}, fmt.Errorf("%w: email is no longer allow-listed", faults.ErrForbidden)
	}

	now := s.now()
	sessionToken, err := signToken([]byte(s.cfg.SessionSecret), claims.Email, TypeSession, RoleAdmin, s.cfg.SessionTTL, now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: sign session token: %v", faults.ErrUpstream, err)
	}
	return sessionToken, now.Add(s.cfg.SessionTTL), nil
}

// VerifySession validates a session token and returns the admin email it
// authorizes. All verification failures collapse to Unauthorized.
func (s *Service) VerifySession(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: session token is required", faults.ErrUnauthorized)
	}
	claims, err := verifyToken([]byte(s.cfg.SessionSecret), raw, s.now)
	if err != nil {
		return "", fmt.Errorf("%w: session token", faults.ErrUnauthorized)
	}
	if claims.Typ != TypeSession {
		return "", fmt.Errorf("%w: wrong token type", faults.ErrUnauthorized)
	}
	if !s.allowed(claims.Email) {
		return "", fmt.Errorf("%w: email is no longer allow-listed", faults.ErrForbidden)
	}
	return claims.Email, nil
}

func (s *Service) allowed(email string) bool {
	_, ok := s.allow[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
