package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/camden-git/yearbookbackend/apperrors"
)

// MinEditTokenBytes is the smallest accepted token size (128 bits).
const MinEditTokenBytes = 16

var (
	ErrAdminNotConfigured = apperrors.New(apperrors.KindServerMisconfigured, "Server configuration error")
	ErrMissingCredential  = apperrors.New(apperrors.KindUnauthenticated, "Missing or invalid authorization")
	ErrInvalidAdminSecret = apperrors.New(apperrors.KindForbidden, "Invalid admin password")
)

const bearerPrefix = "Bearer "

// ParseBearer returns everything after a single "Bearer " prefix of an
// Authorization header value. The remainder is taken verbatim; an empty one
// counts as no credential.
func ParseBearer(header string) (string, bool) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// TokensEqual compares two secrets in constant time. Both sides are hashed
// first so the comparison does not depend on their lengths.
func TokensEqual(a, b string) bool {
	da := blake2b.Sum256([]byte(a))
	db := blake2b.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}

// AdminGuard checks requests against the process-wide admin secret.
type AdminGuard struct {
	secret string
}

func NewAdminGuard(secret string) *AdminGuard {
	return &AdminGuard{secret: secret}
}

// Configured reports whether a secret was supplied at startup.
func (g *AdminGuard) Configured() bool {
	return g.secret != ""
}

// Authorize evaluates an Authorization header value. A nil error means the
// caller is the admin.
func (g *AdminGuard) Authorize(header string) error {
	if !g.Configured() {
		return ErrAdminNotConfigured
	}
	token, ok := ParseBearer(header)
	if !ok {
		return ErrMissingCredential
	}
	if !TokensEqual(token, g.secret) {
		return ErrInvalidAdminSecret
	}
	return nil
}

// MintEditToken returns a fresh URL-safe token carrying byteLen bytes of
// entropy from crypto/rand.
func MintEditToken(byteLen int) (string, error) {
	if byteLen < MinEditTokenBytes {
		return "", fmt.Errorf("edit token length %d below minimum %d", byteLen, MinEditTokenBytes)
	}
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate edit token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
