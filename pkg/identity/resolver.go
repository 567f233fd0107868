package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie consulted when no bearer token is present.
const SessionCookie = "session_token"

// Resolver extracts the authenticated user from a request.
// Implementations return ErrNoCredentials when the request carries
// nothing to validate, and ErrInvalidToken or ErrExpiredToken when it
// carries something unusable.
type Resolver interface {
	Resolve(r *http.Request) (userID string, err error)
}

// Config holds the token validation settings.
type Config struct {
	SigningKey string `env:"JWT_SIGNING_KEY,required"`
	Issuer     string `env:"JWT_ISSUER" envDefault:"ecooverlay"`
}

// JWTResolver validates HS256 tokens from the Authorization header or
// the session cookie. The subject claim is the user ID.
type JWTResolver struct {
	key    []byte
	issuer string
}

// NewJWTResolver creates a resolver from cfg.
func NewJWTResolver(cfg Config) (*JWTResolver, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	return &JWTResolver{
		key:    []byte(cfg.SigningKey),
		issuer: cfg.Issuer,
	}, nil
}

// Resolve implements Resolver.
func (j *JWTResolver) Resolve(r *http.Request) (string, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return "", ErrNoCredentials
	}

	claims := jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return j.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// tokenFromRequest pulls the raw token from the Authorization header,
// falling back to the session cookie.
func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
