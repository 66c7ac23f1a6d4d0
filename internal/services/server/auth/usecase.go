package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	domainauth "github.com/hireloop/hireloop/internal/domain/auth"
	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/password"
	"github.com/hireloop/hireloop/internal/repository/postgres"
	"github.com/hireloop/hireloop/internal/token"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses do not leak which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
)

// SessionPair is what a successful register/login/refresh hands back.
type SessionPair struct {
	User    *user.User
	Access  string
	Refresh string
}

type Usecase struct {
	users user.Repo
	rt    domainauth.RefreshTokenRepo
	codec *token.Codec
	tx    postgres.Transactor
}

func NewUsecase(users user.Repo, rt domainauth.RefreshTokenRepo, codec *token.Codec, tx postgres.Transactor) *Usecase {
	return &Usecase{users: users, rt: rt, codec: codec, tx: tx}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u *Usecase) Register(ctx context.Context, email, pass string) (*SessionPair, error) {
	email = normalizeEmail(email)
	hash, err := password.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rec := &user.User{Email: email, PasswordHash: hash, Active: true}
	if err := u.users.Create(ctx, rec); err != nil {
		if errors.Is(err, postgres.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u.issueSession(ctx, rec)
}

func (u *Usecase) Login(ctx context.Context, email, pass string) (*SessionPair, error) {
	email = normalizeEmail(email)
	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !password.Verify(pass, rec.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !rec.Active {
		return nil, ErrInvalidCredentials
	}
	return u.issueSession(ctx, rec)
}

// Refresh rotates a refresh grant: the presented token is revoked and a fresh
// pair is issued. Replaying a rotated token fails because its jti is already
// revoked in the ledger.
func (u *Usecase) Refresh(ctx context.Context, rawRefresh string) (*SessionPair, error) {
	claims, err := u.codec.DecodeRefresh(rawRefresh)
	if err != nil {
		return nil, ErrUnauthorized
	}

	row, err := u.rt.GetByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if row.Revoked || row.ExpiresAt.Before(u.codec.Now()) {
		return nil, ErrUnauthorized
	}

	rec, err := u.users.GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !rec.Active {
		return nil, ErrUnauthorized
	}

	jti := uuid.NewString()
	expiresAt := u.codec.Now().Add(u.codec.RefreshTTL())

	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := u.rt.Revoke(ctx, claims.ID); err != nil {
			return fmt.Errorf("revoke rotated token: %w", err)
		}
		next := &domainauth.RefreshToken{JTI: jti, UserID: rec.ID, ExpiresAt: expiresAt}
		if err := u.rt.Create(ctx, next); err != nil {
			return fmt.Errorf("save refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	access, err := u.codec.EncodeAccess(rec.Email)
	if err != nil {
		return nil, fmt.Errorf("sign access: %w", err)
	}
	refresh, err := u.codec.EncodeRefresh(rec.Email, jti, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign refresh: %w", err)
	}
	return &SessionPair{User: rec, Access: access, Refresh: refresh}, nil
}

// Logout revokes the presented refresh token. The token has to resolve the
// same way Refresh resolves one: a bad signature, an unknown or already
// revoked jti, and an expired grant all fail with ErrUnauthorized.
func (u *Usecase) Logout(ctx context.Context, rawRefresh string) error {
	claims, err := u.codec.DecodeRefresh(rawRefresh)
	if err != nil {
		return ErrUnauthorized
	}
	row, err := u.rt.GetByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("load refresh token: %w", err)
	}
	if row.Revoked || row.ExpiresAt.Before(u.codec.Now()) {
		return ErrUnauthorized
	}
	if _, err := u.users.GetByID(ctx, row.UserID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("load user: %w", err)
	}
	return u.rt.Revoke(ctx, claims.ID)
}

// Authenticate resolves an access token to its user. Every failure mode
// (bad signature, expired, wrong token type, unknown or inactive user)
// collapses to ErrUnauthorized.
func (u *Usecase) Authenticate(ctx context.Context, accessToken string) (*user.User, error) {
	claims, err := u.codec.DecodeAccess(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	rec, err := u.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !rec.Active {
		return nil, ErrUnauthorized
	}
	return rec, nil
}

func (u *Usecase) issueSession(ctx context.Context, rec *user.User) (*SessionPair, error) {
	jti := uuid.NewString()
	expiresAt := u.codec.Now().Add(u.codec.RefreshTTL())

	row := &domainauth.RefreshToken{JTI: jti, UserID: rec.ID, ExpiresAt: expiresAt}
	if err := u.rt.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	access, err := u.codec.EncodeAccess(rec.Email)
	if err != nil {
		return nil, fmt.Errorf("sign access: %w", err)
	}
	refresh, err := u.codec.EncodeRefresh(rec.Email, jti, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign refresh: %w", err)
	}
	return &SessionPair{User: rec, Access: access, Refresh: refresh}, nil
}
