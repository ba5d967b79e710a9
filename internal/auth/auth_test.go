package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestVerifier(t *testing.T) {
	t.Parallel()

	verifier, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	valid, err := Issue(testSecret, "admin@electrostore", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: RoleAdmin}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	customer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	otherSecret, err := Issue("ffffffffffffffffffffffffffffffff", "admin", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "valid", header: "Bearer " + valid},
		{name: "case insensitive scheme", header: "bearer " + valid},
		{name: "missing", header: "", wantErr: ErrMissingToken},
		{name: "wrong scheme", header: "Basic " + valid, wantErr: ErrMissingToken},
		{name: "expired", header: "Bearer " + expired, wantErr: ErrInvalidToken},
		{name: "no expiry", header: "Bearer " + noExpiry, wantErr: ErrInvalidToken},
		{name: "wrong secret", header: "Bearer " + otherSecret, wantErr: ErrInvalidToken},
		{name: "not admin", header: "Bearer " + customer, wantErr: ErrForbidden},
		{name: "garbage", header: "Bearer not-a-jwt", wantErr: ErrInvalidToken},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			claims, err := verifier.VerifyHeader(tc.header)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.Subject != "admin@electrostore" {
				t.Fatalf("unexpected subject: %q", claims.Subject)
			}
		})
	}
}

func TestVerifier_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("short"); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestIssue_RejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()

	if _, err := Issue(testSecret, "admin", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
