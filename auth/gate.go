package auth

import (
	"net/http"
	"strings"

	"live-hub/errors"
)

// Principal extracts the bearer credential from a handshake request and
// verifies it. This runs once, before the connection is upgraded: a
// request without a valid token never reaches the router.
//
// The token travels in the `token` query parameter, which is what
// browser websocket clients can actually set. The standard
// Authorization header is accepted as a fallback for non-browser
// clients.
func (v Verifier) Principal(r *http.Request) (string, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		return "", errors.ErrMissingToken
	}
	return v.Verify(token)
}
