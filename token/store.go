// Package token holds the client's credential state: the refresh/access
// token pair, when each was last issued, and the TTL policy that decides
// staleness. Tokens are opaque strings; nothing here ever decodes them.
package token

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-broker-client/oauth2"
)

// Store is the in-memory credential state. Exactly one of {empty, fully
// populated} holds: a partial state (access token without refresh token)
// never occurs, because population happens only through Load or ApplyGrant.
type Store struct {
	RefreshToken string
	AccessToken  string
	IDToken      string

	// RefreshTokenUpdated is when the refresh token was last (re)issued.
	// Only a full re-authorization moves it; refresh grants do not.
	RefreshTokenUpdated time.Time

	// AccessTokenUpdated is when the access token was last (re)issued.
	AccessTokenUpdated time.Time

	// RefreshTokenTTL is a local policy value, never derived from the token.
	RefreshTokenTTL time.Duration

	// AccessTokenTTL starts as local policy and is overwritten by the
	// server's expires_in on every grant.
	AccessTokenTTL time.Duration
}

// NewStore creates an empty Store carrying the configured TTL policy.
func NewStore(refreshTTL, accessTTL time.Duration) *Store {
	return &Store{
		RefreshTokenTTL: refreshTTL,
		AccessTokenTTL:  accessTTL,
	}
}

// IsRefreshStale reports whether the refresh token's age exceeds its TTL.
// Strict: age exactly equal to the TTL is still fresh. Fails until a load
// or grant has set the issue time.
func (s *Store) IsRefreshStale(now time.Time) (bool, error) {
	if s.RefreshTokenUpdated.IsZero() {
		return false, fmt.Errorf("refresh token: %w", ErrIssuedAtUnset)
	}
	return now.Sub(s.RefreshTokenUpdated) > s.RefreshTokenTTL, nil
}

// IsAccessStale reports whether the access token's age exceeds its TTL.
func (s *Store) IsAccessStale(now time.Time) (bool, error) {
	if s.AccessTokenUpdated.IsZero() {
		return false, fmt.Errorf("access token: %w", ErrIssuedAtUnset)
	}
	return now.Sub(s.AccessTokenUpdated) > s.AccessTokenTTL, nil
}

// ApplyGrant overwrites the credential state from a validated token-endpoint
// response. reauthorized marks a full authorization-code exchange: only then
// does the refresh token's clock reset; a refresh grant renews the access
// clock alone and requires the refresh clock to already be set.
func (s *Store) ApplyGrant(resp *oauth2.TokenResponse, reauthorized bool, now time.Time) error {
	if !reauthorized && s.RefreshTokenUpdated.IsZero() {
		return fmt.Errorf("refresh grant before issue time set: %w", ErrIssuedAtUnset)
	}

	s.AccessToken = resp.AccessToken
	s.RefreshToken = resp.RefreshToken
	s.IDToken = resp.IDToken
	s.AccessTokenTTL = time.Duration(resp.ExpiresIn) * time.Second
	s.AccessTokenUpdated = now
	if reauthorized {
		s.RefreshTokenUpdated = now
	}
	return nil
}
