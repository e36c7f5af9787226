package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"sub":      "u-1",
		"username": "admin",
		"exp":      time.Now().Add(d).Unix(),
	})
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signToken(t, jwt.MapClaims{"sub": "u-1", "exp": exp.Unix()})

	got, err := tokenExpiry(raw)
	require.NoError(t, err)
	assert.WithinDuration(t, exp, got, time.Second)
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "u-1"})
	_, err := tokenExpiry(raw)
	require.Error(t, err)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{"valid", tokenExpiringIn(t, time.Hour), false},
		{"past expiry", tokenExpiringIn(t, -time.Hour), true},
		{"no exp claim", signToken(t, jwt.MapClaims{"sub": "u-1"}), true},
		{"garbage", "not.a.token", true},
		{"empty", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expired, isExpired(tc.token, now))
		})
	}
}

func TestDecodeIdentity(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{
		"id":       "u-42",
		"username": "field-officer",
		"email":    "officer@example.org",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	identity, err := decodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-42", identity.ID)
	assert.Equal(t, "field-officer", identity.Username)
	assert.Equal(t, "officer@example.org", identity.Email)
	assert.Equal(t, "admin", identity.Role)
}

func TestDecodeIdentitySubFallback(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "u-7", "exp": time.Now().Add(time.Hour).Unix()})

	identity, err := decodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-7", identity.ID)
	assert.Equal(t, "u-7", identity.Username)
}

func TestDecodeIdentityNoClaims(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	_, err := decodeIdentity(raw)
	require.Error(t, err)
}

func TestDecodeIdentityGarbage(t *testing.T) {
	_, err := decodeIdentity("garbage")
	require.Error(t, err)
}

func TestDecodeIdentityFailureDoesNotAffectExpiry(t *testing.T) {
	// A token whose identity claims are unusable is still not expired.
	raw := signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	_, err := decodeIdentity(raw)
	require.Error(t, err)
	assert.False(t, isExpired(raw, time.Now()))
}
