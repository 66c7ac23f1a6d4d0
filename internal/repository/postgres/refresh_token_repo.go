package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hireloop/hireloop/internal/domain/auth"
)

var _ auth.RefreshTokenRepo = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo is the durable ledger of issued refresh grants, keyed by
// jti. Rows are only ever inserted or flipped to revoked, never deleted.
type RefreshTokenRepo struct{ db *DB }

func NewRefreshTokenRepo(db *DB) *RefreshTokenRepo { return &RefreshTokenRepo{db: db} }

const (
	qRTCreate = `
INSERT INTO refresh_tokens (jti, user_id, expires_at, revoked)
VALUES ($1, $2, $3, FALSE)
RETURNING id, created_at;`

	qRTByJTI = `
SELECT id, jti, user_id, expires_at, revoked, created_at
FROM refresh_tokens
WHERE jti = $1;`

	qRTRevoke = `
UPDATE refresh_tokens SET revoked = TRUE WHERE jti = $1;`
)

func (r *RefreshTokenRepo) Create(ctx context.Context, t *auth.RefreshToken) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qRTCreate, t.JTI, t.UserID, t.ExpiresAt).
		Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("refresh token insert: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) GetByJTI(ctx context.Context, jti string) (*auth.RefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var t auth.RefreshToken
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qRTByJTI, jti).
		Scan(&t.ID, &t.JTI, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &t, nil
}

// Revoke flips revoked to true. Unknown jtis are a no-op: revocation is
// monotonic, so there is nothing to undo and nothing to report.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, jti string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qRTRevoke, jti); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
