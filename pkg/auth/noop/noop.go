// Package noop provides a pass-through authenticator for development.
package noop

import (
	"context"
	"net/http"

	"github.com/Decadesice/LightFlow/pkg/auth"
)

// Authenticator accepts every request with a fixed anonymous identity.
// Use only in development; it never inspects credentials.
type Authenticator struct{}

// New creates a no-op authenticator.
func New() *Authenticator {
	return &Authenticator{}
}

// Authenticate always returns Yes.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.AuthResult {
	return auth.AuthResult{
		Decision: auth.Yes,
		Identity: &auth.Identity{Subject: "anonymous"},
	}
}
