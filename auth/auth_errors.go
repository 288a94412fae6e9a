package auth

import "errors"

var (
	// ErrInvalidConsentResponse indicates a redirect URL without the
	// expected code markers. The exchange is not attempted.
	ErrInvalidConsentResponse = errors.New("consent response missing code markers")

	// ErrInvalidGrantType guards the exchange against grant types the
	// authorization server does not support. Not reachable from the public
	// surface.
	ErrInvalidGrantType = errors.New("invalid grant type")
)
