// Package auth provides identity verification for document requests.
package auth

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/docgate/domain/route"
	"github.com/artpar/docgate/ports"
)

// BasicVerifier validates HTTP basic credentials against a single configured
// admin account with a bcrypt password hash.
type BasicVerifier struct {
	username     string
	passwordHash string
}

// NewBasicVerifier creates a verifier. An empty username disables
// authentication entirely; Verify then rejects all credentials.
func NewBasicVerifier(username, passwordHash string) *BasicVerifier {
	return &BasicVerifier{username: username, passwordHash: passwordHash}
}

// Verify checks credentials and returns the authenticated identity, or ""
// if the credentials do not match.
func (v *BasicVerifier) Verify(username, password string) string {
	if v.username == "" || v.passwordHash == "" {
		return ""
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) != 1 {
		return ""
	}
	if bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) != nil {
		return ""
	}
	return v.username
}

// HashPassword produces a bcrypt hash suitable for the config file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Checker decides endpoint visibility per identity. Protected endpoints are
// visible only to authenticated identities; everything else is visible to
// everyone.
type Checker struct{}

// NewChecker creates a permission checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Allowed reports whether the identity may see the endpoint.
func (c *Checker) Allowed(ctx context.Context, identity string, ep *route.Endpoint) bool {
	if ep.Protected {
		return identity != ""
	}
	return true
}

var _ ports.PermissionChecker = (*Checker)(nil)
