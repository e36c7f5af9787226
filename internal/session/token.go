package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/agri-dcp-console/internal/models"
)

// The console holds no signing secret, so tokens are decoded without
// signature verification. The expiry read here is advisory only; the
// server re-checks the signature and expiry on every request.

// tokenExpiry returns the expiry claim of a raw token.
func tokenExpiry(raw string) (time.Time, error) {
	claims, err := decodeClaims(raw)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return exp.Time, nil
}

// isExpired reports whether the token is unusable at the given instant.
// Undecodable tokens and tokens without an expiry count as expired.
func isExpired(raw string, now time.Time) bool {
	exp, err := tokenExpiry(raw)
	if err != nil {
		return true
	}
	return !exp.After(now)
}

// decodeIdentity extracts the display identity from the token claims,
// independent of the expiry check so a malformed name claim can never
// break authentication itself.
func decodeIdentity(raw string) (*models.Identity, error) {
	claims, err := decodeClaims(raw)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	identity := &models.Identity{
		ID:       stringClaim(claims, "id", sub),
		Username: stringClaim(claims, "username", sub),
	}
	identity.Email = stringClaim(claims, "email", "")
	identity.Role = stringClaim(claims, "role", "")

	if identity.ID == "" && identity.Username == "" {
		return nil, fmt.Errorf("token carries no identity claims")
	}
	return identity, nil
}

func decodeClaims(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key, fallback string) string {
	if v, ok := claims[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
