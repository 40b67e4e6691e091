package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right", 1, 5)
	require.NoError(t, err)
	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenIsRandomAndHashable(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96) // 48 bytes hex encoded
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), a.Exp, 5*time.Second)

	// Hashing is deterministic and never echoes the raw value.
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	assert.NotEqual(t, a.Raw, HashRefreshRaw(a.Raw))
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
}

func TestNewPublicSlug(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		slug, err := NewPublicSlug()
		require.NoError(t, err)
		assert.Len(t, slug, slugLength)
		for _, r := range slug {
			assert.Contains(t, slugAlphabet, string(r))
		}
		assert.False(t, seen[slug], "slug collision")
		seen[slug] = true
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2", 4) // minimum cost keeps the test fast
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter2"))
}
