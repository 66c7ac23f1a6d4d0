package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
	ErrWrongType        = errors.New("unexpected token type")
)

// AccessClaims and RefreshClaims are deliberately separate structs: the two
// token kinds are signed with independent keys, so one can never be decoded
// as the other, and the compiler keeps call sites from mixing them up.
type AccessClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

type RefreshClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// Codec signs and verifies the two token kinds. Immutable after New.
type Codec struct {
	cfg Config
}

func New(cfg Config) *Codec {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Codec{cfg: cfg}
}

func (c *Codec) AccessTTL() time.Duration  { return c.cfg.AccessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.cfg.RefreshTTL }
func (c *Codec) Now() time.Time            { return c.cfg.Now() }

// EncodeAccess mints a short-lived access token with subject=email.
func (c *Codec) EncodeAccess(email string) (string, error) {
	now := c.cfg.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.AccessTTL)),
		},
		Type: TypeAccess,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(c.cfg.AccessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return s, nil
}

// EncodeRefresh mints a refresh token carrying the ledger jti. expiresAt must
// match the ledger row so the embedded expiry and the stored one agree.
func (c *Codec) EncodeRefresh(email, jti string, expiresAt time.Time) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(c.cfg.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type: TypeRefresh,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(c.cfg.RefreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return s, nil
}

// DecodeAccess verifies raw against the access key. A refresh token presented
// here fails the signature check, not just the type check.
func (c *Codec) DecodeAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(raw, &claims, c.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Type != TypeAccess {
		return nil, ErrWrongType
	}
	return &claims, nil
}

// DecodeRefresh verifies raw against the refresh key.
func (c *Codec) DecodeRefresh(raw string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.parse(raw, &claims, c.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh {
		return nil, ErrWrongType
	}
	return &claims, nil
}

func (c *Codec) parse(raw string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.cfg.Now),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
