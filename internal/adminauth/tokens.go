package adminauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminators. A token of one type must never be accepted
// where the other is expected; the discriminator is checked explicitly on
// every verification, independent of signature validity.
const (
	TypeMagic   = "magic"
	TypeSession = "session"
)

// RoleAdmin is the only role session tokens currently carry.
const RoleAdmin = "admin"

// Claims is the signed payload of both magic and session tokens.
type Claims struct {
	Email string `json:"email"`
	Typ   string `json:"typ"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func signToken(secret []byte, email, typ, role string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email: email,
		Typ:   typ,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verifyToken checks signature and expiry only. Callers are responsible
// for the type discriminator and allow-list checks on the returned claims.
func verifyToken(secret []byte, raw string, now func() time.Time) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if claims.Email == "" {
		return Claims{}, fmt.Errorf("verify token: missing subject")
	}
	return claims, nil
}
