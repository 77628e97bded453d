package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-signing-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func bearerRequest(token string) *AuthRequest {
	return &AuthRequest{Headers: http.Header{"Authorization": {"Bearer " + token}}}
}

func TestJWTAuthenticator_Supports(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret})
	ctx := context.Background()

	if !a.Supports(ctx, bearerRequest("x")) {
		t.Error("Supports() = false with bearer, want true")
	}
	basic := &AuthRequest{Headers: http.Header{"Authorization": {"Basic abc"}}}
	if a.Supports(ctx, basic) {
		t.Error("Supports() = true with basic auth, want false")
	}
	if a.Supports(ctx, &AuthRequest{Headers: http.Header{}}) {
		t.Error("Supports() = true without header, want false")
	}
}

func TestJWTAuthenticator_Valid(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret, Issuer: "placeholders", Audience: "admin"})
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "ops@example.com",
		"iss":   "placeholders",
		"aud":   "admin",
		"exp":   exp.Unix(),
		"roles": []string{"admin", "viewer"},
	})

	result, err := a.Authenticate(context.Background(), bearerRequest(token))
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if !result.Authenticated {
		t.Fatalf("Authenticated = false, error = %v", result.Error)
	}
	id := result.Identity
	if id.Principal != "ops@example.com" {
		t.Errorf("Principal = %q, want %q", id.Principal, "ops@example.com")
	}
	if !id.HasRole("admin") || !id.HasRole("viewer") {
		t.Errorf("Roles = %v, want [admin viewer]", id.Roles)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", id.ExpiresAt, exp)
	}
	if id.Method != AuthMethodJWT {
		t.Errorf("Method = %q, want %q", id.Method, AuthMethodJWT)
	}
}

func TestJWTAuthenticator_RolesAsString(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret, RolesClaim: "scope"})
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "svc",
		"scope": "admin purge",
	})
	result, err := a.Authenticate(context.Background(), bearerRequest(token))
	if err != nil || !result.Authenticated {
		t.Fatalf("Authenticate() = %+v, %v", result, err)
	}
	if !result.Identity.HasRole("purge") {
		t.Errorf("Roles = %v, want purge", result.Identity.Roles)
	}
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret, Issuer: "placeholders"})
	valid := jwt.MapClaims{"sub": "x", "iss": "placeholders", "exp": time.Now().Add(time.Hour).Unix()}

	expired := jwt.MapClaims{"sub": "x", "iss": "placeholders", "exp": time.Now().Add(-time.Hour).Unix()}
	wrongIssuer := jwt.MapClaims{"sub": "x", "iss": "someone-else", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), valid), ErrInvalidCredentials},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, testSecret, valid), ErrInvalidCredentials},
		{"unsigned", signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), ErrInvalidCredentials},
		{"expired", signToken(t, jwt.SigningMethodHS256, testSecret, expired), ErrTokenExpired},
		{"wrong issuer", signToken(t, jwt.SigningMethodHS256, testSecret, wrongIssuer), ErrInvalidCredentials},
		{"garbage", "not-a-token", ErrTokenMalformed},
		{"empty", "", ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.Authenticate(context.Background(), bearerRequest(tt.token))
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if result.Authenticated {
				t.Fatal("Authenticated = true, want false")
			}
			if !errors.Is(result.Error, tt.wantErr) {
				t.Errorf("Error = %v, want %v", result.Error, tt.wantErr)
			}
		})
	}
}

func TestJWTAuthenticator_MissingSecret(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{})
	_, err := a.Authenticate(context.Background(), bearerRequest("x"))
	if !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrMissingSecret)
	}
}
