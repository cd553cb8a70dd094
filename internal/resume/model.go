package resume

import "time"

// TokenRecord is the short-lived, single-use mapping from a resume token
// to the draft it resumes. Tokens for one draft are independent of each
// other; several may coexist. A record moves from created to used or
// expired, never back.
type TokenRecord struct {
	Token      string
	DraftToken string
	Email      string
	Used       bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
