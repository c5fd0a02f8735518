// Package apikey implements static API key authentication.
//
// Keys are compared as SHA-256 digests in constant time, so a configured
// key never sits in memory longer than startup and timing attacks reveal
// nothing about prefix matches.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Decadesice/LightFlow/pkg/auth"
)

// Key pairs a credential with the subject it authenticates.
type Key struct {
	Secret  string
	Subject string
}

// Authenticator validates bearer API keys against a static list.
type Authenticator struct {
	keys []entry
}

type entry struct {
	digest  [sha256.Size]byte
	subject string
}

// New creates an API key authenticator from the configured keys.
func New(keys []Key) *Authenticator {
	a := &Authenticator{keys: make([]entry, 0, len(keys))}
	for _, k := range keys {
		a.keys = append(a.keys, entry{
			digest:  sha256.Sum256([]byte(k.Secret)),
			subject: k.Subject,
		})
	}
	return a
}

// Authenticate checks the Authorization header for a known API key.
// Abstains when no bearer credential is present so other authenticators
// in the chain can vote.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.AuthResult {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	digest := sha256.Sum256([]byte(token))
	for _, e := range a.keys {
		if subtle.ConstantTimeCompare(digest[:], e.digest[:]) == 1 {
			return auth.AuthResult{
				Decision: auth.Yes,
				Identity: &auth.Identity{Subject: e.subject},
			}
		}
	}

	return auth.AuthResult{Decision: auth.No, Err: auth.ErrUnauthenticated}
}
