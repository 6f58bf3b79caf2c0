package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterInput{Name: " Ann ", Email: "Ann@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Name != "Ann" || user.Email != "ann@example.com" {
		t.Errorf("user = %q <%q>", user.Name, user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Errorf("password stored as %q", user.PasswordHash)
	}

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "x@example.com", Password: "secret1"}},
		{"bad email", RegisterInput{Name: "x", Email: "nope", Password: "secret1"}},
		{"short password", RegisterInput{Name: "x", Email: "x@example.com", Password: "abc"}},
		{"duplicate email", RegisterInput{Name: "Other", Email: "ANN@example.com", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.input)
			assertKind(t, err, ErrValidation)
		})
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := env.auth.Login(ctx, "ANN@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	principal, err := env.auth.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal != user.ID {
		t.Errorf("principal = %d, want %d", principal, user.ID)
	}

	_, err = env.auth.Login(ctx, "ann@example.com", "wrong-password")
	assertKind(t, err, ErrUnauthenticated)
	_, err = env.auth.Login(ctx, "ghost@example.com", "secret1")
	assertKind(t, err, ErrUnauthenticated)
}

func TestAuthenticate_Rejects(t *testing.T) {
	env := setupTestEnv(t)

	expired := NewAuthService(env.store, "test-secret", time.Minute, env.auth.log)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, err := expired.IssueToken(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	foreign := NewAuthService(env.store, "other-secret", time.Hour, env.auth.log)
	foreignToken, err := foreign.IssueToken(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ann",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"alg none", noneToken},
		{"non-numeric subject", badSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Authenticate(tt.token)
			assertKind(t, err, ErrUnauthenticated)
		})
	}
}
