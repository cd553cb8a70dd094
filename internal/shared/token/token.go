// Package token produces the opaque identifiers used as draft tokens,
// resume tokens, and submission keys.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultBytes yields 256 bits of entropy per token.
const DefaultBytes = 32

// Generate returns a URL-safe random token carrying byteLength bytes of
// entropy, without padding. An exhausted entropy source is unrecoverable,
// so Generate panics rather than handing out a weak token.
func Generate(byteLength int) string {
	if byteLength <= 0 {
		byteLength = DefaultBytes
	}
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("token: entropy source failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// New returns a token with the default entropy.
func New() string {
	return Generate(DefaultBytes)
}
