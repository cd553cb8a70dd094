package token

import (
	"encoding/base64"
	"testing"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	tok := Generate(32)
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not raw URL-safe base64: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32 bytes of entropy, got %d", len(raw))
	}
	for _, r := range tok {
		if r == '+' || r == '/' || r == '=' {
			t.Fatalf("token contains non URL-safe character %q", r)
		}
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tok := New()
		if _, ok := seen[tok]; ok {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerateDefaultsOnNonPositiveLength(t *testing.T) {
	tok := Generate(0)
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != DefaultBytes {
		t.Fatalf("expected default %d bytes, got %d", DefaultBytes, len(raw))
	}
}
