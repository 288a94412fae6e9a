package token

import "errors"

var (
	// ErrMalformedRecord indicates a persisted token record that is
	// unreadable or missing a required field. The lifecycle manager treats
	// it as "no state" and falls back to full authorization.
	ErrMalformedRecord = errors.New("malformed token record")

	// ErrIssuedAtUnset indicates a staleness check or refresh-grant apply
	// before any load or grant has set the token's issue time.
	ErrIssuedAtUnset = errors.New("token issue time unset")
)
