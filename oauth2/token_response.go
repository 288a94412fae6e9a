package oauth2

import "errors"

// ErrMalformedTokenResponse indicates a token-endpoint response missing one
// of its required fields. The response must never be partially applied.
var ErrMalformedTokenResponse = errors.New("malformed token endpoint response")

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in
// RFC 6749, narrowed to the fields the brokerage's server always returns.
// The token strings are opaque to this client; they are stored and sent
// back verbatim, never decoded.
type TokenResponse struct {
	// AccessToken is the short-lived bearer credential for API calls.
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived credential used to obtain new access
	// tokens without user interaction. The server returns one on both
	// grant types.
	RefreshToken string `json:"refresh_token"`

	// IDToken is the identity assertion. Stored alongside the other tokens
	// but never interpreted.
	IDToken string `json:"id_token"`

	// TokenType is "Bearer" for every grant this client performs.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the authoritative access-token lifetime in seconds. It
	// overrides the locally configured access-token TTL on every grant.
	ExpiresIn int `json:"expires_in"`

	// Scope lists the granted permissions, space separated.
	Scope string `json:"scope,omitempty"`
}

// Validate reports whether the response carries every field the token
// lifecycle depends on. A failure means the whole response is discarded.
func (tr *TokenResponse) Validate() error {
	if tr.AccessToken == "" || tr.RefreshToken == "" || tr.IDToken == "" || tr.ExpiresIn <= 0 {
		return ErrMalformedTokenResponse
	}
	return nil
}
