package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryFromToken reads the exp claim of the backend's bearer token. The
// signature is not checked here: the backend verifies its own tokens on every
// call. Tokens that are not JWTs, or carry no exp, fall back to now+fallback.
func ExpiryFromToken(token string, fallback time.Duration, now time.Time) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return now.Add(fallback)
	}
	if claims.ExpiresAt == nil {
		return now.Add(fallback)
	}
	return claims.ExpiresAt.Time
}
