package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issue mints a signed token for userID valid for ttl. Used by the
// auth endpoints and by tests that need a valid session.
func (j *JWTResolver) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
}
