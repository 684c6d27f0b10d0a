package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository keeps every issued refresh token, stored by hash.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	// Revoke marks a live token revoked and reports whether this call did so.
	// Unknown, expired and already revoked tokens report false.
	Revoke(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
