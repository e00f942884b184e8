// ABOUTME: Read-only inspection of the stored session token
// ABOUTME: Decodes JWT registered claims without verifying the signature

package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned when the token is not a JWT
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenInfo is what the client can learn about its own token
type TokenInfo struct {
	Subject   string    `json:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry in the past
func (ti *TokenInfo) Expired(now time.Time) bool {
	return !ti.ExpiresAt.IsZero() && now.After(ti.ExpiresAt)
}

// Claims decodes the token's registered claims. The server is the only
// party that can verify the signature, so none is checked here.
func Claims(token string) (*TokenInfo, error) {
	if token == "" {
		return nil, ErrOpaqueToken
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, ErrOpaqueToken
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
