package auth

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	codeStartMarker = "code="
	codeEndMarker   = "%40&"
)

// ExtractCode pulls the authorization code out of the redirect URL the user
// pasted back after granting consent. The server issues codes ending in
// "@", which arrives percent-encoded and split across the "%40" boundary,
// so the code is the substring between "code=" and "%40&" with a literal
// "@" appended. This exact reconstruction is deliberate; a generic URL
// decode produces a code the server rejects.
func ExtractCode(redirectURL string) (string, error) {
	start := strings.Index(redirectURL, codeStartMarker)
	if start < 0 {
		return "", errors.Wrapf(ErrInvalidConsentResponse, "no %q in redirect URL", codeStartMarker)
	}
	start += len(codeStartMarker)
	end := strings.Index(redirectURL[start:], codeEndMarker)
	if end < 0 {
		return "", errors.Wrapf(ErrInvalidConsentResponse, "no %q in redirect URL", codeEndMarker)
	}
	return redirectURL[start:start+end] + "@", nil
}
