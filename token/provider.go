package token

import "context"

// Provider supplies a fresh access token for authenticated API calls.
// Implementations refresh or re-authorize as needed before returning.
type Provider interface {
	// AccessToken returns an access token guaranteed fresh at the time of
	// return.
	AccessToken(ctx context.Context) (string, error)
}
