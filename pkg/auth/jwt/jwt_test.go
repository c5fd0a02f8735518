package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/Decadesice/LightFlow/pkg/auth"
)

const testSecret = "test-secret-0123456789abcdef"

func signToken(t *testing.T, secret string, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func authenticate(t *testing.T, a *Authenticator, header string) auth.AuthResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return a.Authenticate(context.Background(), req)
}

func TestValidToken(t *testing.T) {
	a := New(testSecret, "")
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	result := authenticate(t, a, "Bearer "+token)
	if result.Decision != auth.Yes {
		t.Fatalf("decision = %v (err %v), want Yes", result.Decision, result.Err)
	}
	if result.Identity.Subject != "alice" {
		t.Errorf("subject = %q, want alice", result.Identity.Subject)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	a := New(testSecret, "")
	token := signToken(t, "some-other-secret", jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if result := authenticate(t, a, "Bearer "+token); result.Decision != auth.No {
		t.Fatalf("decision = %v, want No", result.Decision)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := New(testSecret, "")
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if result := authenticate(t, a, "Bearer "+token); result.Decision != auth.No {
		t.Fatalf("decision = %v, want No", result.Decision)
	}
}

func TestMissingExpirationRejected(t *testing.T) {
	a := New(testSecret, "")
	token := signToken(t, testSecret, jwtlib.MapClaims{"sub": "alice"})

	if result := authenticate(t, a, "Bearer "+token); result.Decision != auth.No {
		t.Fatalf("decision = %v, want No for token without exp", result.Decision)
	}
}

func TestIssuerValidation(t *testing.T) {
	a := New(testSecret, "lightflow")

	good := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"iss": "lightflow",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	result := authenticate(t, a, "Bearer "+good)
	if result.Decision != auth.Yes {
		t.Fatalf("decision = %v (err %v), want Yes for matching issuer", result.Decision, result.Err)
	}
	if result.Identity.Metadata["issuer"] != "lightflow" {
		t.Errorf("issuer metadata = %q, want lightflow", result.Identity.Metadata["issuer"])
	}

	bad := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if result := authenticate(t, a, "Bearer "+bad); result.Decision != auth.No {
		t.Fatalf("decision = %v, want No for wrong issuer", result.Decision)
	}
}

func TestMissingSubjectRejected(t *testing.T) {
	a := New(testSecret, "")
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if result := authenticate(t, a, "Bearer "+token); result.Decision != auth.No {
		t.Fatalf("decision = %v, want No for missing sub", result.Decision)
	}
}

func TestNonJWTCredentialAbstains(t *testing.T) {
	a := New(testSecret, "")

	if result := authenticate(t, a, "Bearer sk-plain-api-key"); result.Decision != auth.Abstain {
		t.Fatalf("decision = %v, want Abstain for non-JWT bearer", result.Decision)
	}
	if result := authenticate(t, a, ""); result.Decision != auth.Abstain {
		t.Fatalf("decision = %v, want Abstain for missing header", result.Decision)
	}
}
