package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims carries the subset of registered JWT claims the client inspects.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Decode parses a JWT without verifying its signature and returns the
// registered claims. Decoding is a local liveness hint only: it tells the
// client whether a token is worth presenting, never whether it should be
// trusted. Authorization decisions of consequence must be revalidated
// server-side.
func Decode(token string) (Claims, error) {
	var reg jwtlib.RegisteredClaims

	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(token, &reg); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	c := Claims{
		Subject: reg.Subject,
		Issuer:  reg.Issuer,
	}
	if reg.ExpiresAt != nil {
		c.ExpiresAt = reg.ExpiresAt.Time
	}
	if reg.IssuedAt != nil {
		c.IssuedAt = reg.IssuedAt.Time
	}

	return c, nil
}

// IsValid reports whether the token decodes and its expiry is strictly in
// the future at the given instant. Tokens without an exp claim are invalid.
func IsValid(token string, now time.Time) bool {
	c, err := Decode(token)
	if err != nil {
		return false
	}
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.After(now)
}

// NearExpiry reports whether the token expires within threshold of now.
// Undecodable tokens count as near expiry so callers refresh them eagerly.
func NearExpiry(token string, threshold time.Duration, now time.Time) bool {
	c, err := Decode(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return true
	}
	return c.ExpiresAt.Sub(now) < threshold
}

// ErrMalformedToken indicates a token that could not be decoded.
var ErrMalformedToken = errors.New("jwt: malformed token")
