package auth

import "time"

// RefreshToken is one ledger row per issued refresh grant. Rows are never
// deleted; Revoked only ever flips false→true.
type RefreshToken struct {
	ID        int64
	JTI       string
	UserID    int64
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
