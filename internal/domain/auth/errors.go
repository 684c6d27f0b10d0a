package auth

import "errors"

// Token and credential failures. Handlers map all of them to 401 so callers
// cannot tell a wrong password from an unknown email.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("token is malformed or its signature does not match")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token was revoked by logout or rotation")
)
