package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const csrfTokenBytes = 32

// NewID produces the anonymous session identifier stored in the session cookie.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an identifier minted by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// NewCSRFToken generates a random double-submit token.
func NewCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokensMatch compares the cookie and header tokens in constant time.
func TokensMatch(cookie, header string) bool {
	if cookie == "" || header == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) == 1
}
