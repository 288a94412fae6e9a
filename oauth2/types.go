package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// The brokerage's authorization server supports exactly two for this client.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: the interactive consent flow (full re-authorization).
	// Token request includes: code, redirect_uri.
	// Returns: access_token, refresh_token, id_token.
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for a new access token.
	// Used in: the silent refresh flow (no user interaction).
	// Token request includes: refresh_token.
	// Returns: access_token, refresh_token, id_token.
	RefreshTokenGrant GrantType = "refresh_token"
)
