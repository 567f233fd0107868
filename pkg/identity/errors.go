package identity

import "errors"

var (
	ErrMissingSigningKey = errors.New("identity.missing_signing_key")
	ErrNoCredentials     = errors.New("identity.no_credentials")
	ErrInvalidToken      = errors.New("identity.invalid_token")
	ErrExpiredToken      = errors.New("identity.expired_token")
)
