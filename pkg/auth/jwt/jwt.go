// Package jwt implements JWT bearer token authentication with a shared
// HMAC secret.
package jwt

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/Decadesice/LightFlow/pkg/auth"
)

// Authenticator validates HS256/HS384/HS512 signed tokens.
type Authenticator struct {
	secret []byte
	issuer string
}

// New creates a JWT authenticator. issuer is optional; when set, tokens
// must carry a matching iss claim.
func New(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Authenticate validates a bearer JWT. Abstains when the Authorization
// header is missing or the credential is not shaped like a JWT, so an
// API key authenticator in the same chain can claim it.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.AuthResult {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	// A JWT has exactly three dot-separated segments. Anything else is
	// some other credential type.
	if strings.Count(raw, ".") != 2 {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwtlib.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(a.issuer))
	}

	token, err := jwtlib.Parse(raw, func(t *jwtlib.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("invalid token: %w", err),
		}
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("token missing sub claim"),
		}
	}

	identity := &auth.Identity{Subject: subject}
	if claims, ok := token.Claims.(jwtlib.MapClaims); ok {
		if iss, _ := claims["iss"].(string); iss != "" {
			identity.Metadata = map[string]string{"issuer": iss}
		}
	}

	return auth.AuthResult{Decision: auth.Yes, Identity: identity}
}
