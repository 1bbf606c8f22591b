package authjwt

import "errors"

var (
	ErrMalformedToken = errors.New("malformed bearer token")
	ErrTokenExpired   = errors.New("bearer token expired")
	ErrBadSignature   = errors.New("bearer token signature mismatch")
	// ErrWrongAudience covers both a foreign issuer and a foreign audience.
	ErrWrongAudience = errors.New("bearer token not issued for this service")
	ErrNoSubject     = errors.New("bearer token has no subject")
)
