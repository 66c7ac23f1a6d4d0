package auth

import "context"

type RefreshTokenRepo interface {
	Create(ctx context.Context, t *RefreshToken) error
	// GetByJTI returns the ledger row regardless of its revoked/expiry state;
	// callers decide what a usable row looks like.
	GetByJTI(ctx context.Context, jti string) (*RefreshToken, error)
	// Revoke is idempotent: revoking an unknown or already-revoked jti is a no-op.
	Revoke(ctx context.Context, jti string) error
}
