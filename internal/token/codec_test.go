package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(now *time.Time) *Codec {
	return New(Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    168 * time.Hour,
		Now:           func() time.Time { return *now },
	})
}

func TestAccessRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec(&now)

	raw, err := c.EncodeAccess("alice@example.com")
	require.NoError(t, err)

	claims, err := c.DecodeAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, TypeAccess, claims.Type)
	assert.Equal(t, now.Add(30*time.Minute), claims.ExpiresAt.Time)
}

func TestRefreshRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec(&now)

	exp := now.Add(168 * time.Hour)
	raw, err := c.EncodeRefresh("alice@example.com", "jti-123", exp)
	require.NoError(t, err)

	claims, err := c.DecodeRefresh(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "jti-123", claims.ID)
	assert.Equal(t, TypeRefresh, claims.Type)
}

func TestAccessExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec(&now)

	raw, err := c.EncodeAccess("alice@example.com")
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = c.DecodeAccess(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestKindsDoNotCross(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec(&now)

	access, err := c.EncodeAccess("alice@example.com")
	require.NoError(t, err)
	refresh, err := c.EncodeRefresh("alice@example.com", "jti-123", now.Add(time.Hour))
	require.NoError(t, err)

	// the two kinds are signed with different keys, so a cross-decode fails
	// the signature check before the type field is even looked at
	_, err = c.DecodeAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = c.DecodeRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestForeignSignatureRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec(&now)

	other := New(Config{
		AccessSecret:  []byte("some-other-access-secret"),
		RefreshSecret: []byte("some-other-refresh-secret"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    168 * time.Hour,
		Now:           func() time.Time { return now },
	})
	raw, err := other.EncodeAccess("mallory@example.com")
	require.NoError(t, err)

	_, err = c.DecodeAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMalformedRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec(&now)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := c.DecodeAccess(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}
