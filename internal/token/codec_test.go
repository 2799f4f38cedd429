package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signedClaims(t *testing.T) (string, Claims) {
	t.Helper()
	codec, err := NewCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	claims := Claims{
		UserID:    "user-1",
		Email:     "partner@example.com",
		Role:      "PARTNER",
		Name:      "Test Partner",
		PartnerID: "VBP10001",
	}
	tok, err := codec.Sign(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok, claims
}

// Both verifiers must accept tokens from the single signer and return the
// same claims.
func TestVerifyAcceptsSignedTokenBothImplementations(t *testing.T) {
	tok, want := signedClaims(t)

	codec, _ := NewCodec(testSecret, time.Hour)

	verifiers := map[string]func(string) (Claims, error){
		"codec": codec.Verify,
		"hs256": func(s string) (Claims, error) { return VerifyHS256(s, testSecret) },
	}

	for name, verify := range verifiers {
		got, err := verify(tok)
		if err != nil {
			t.Fatalf("%s: verify: %v", name, err)
		}
		if got.UserID != want.UserID || got.Email != want.Email ||
			got.Role != want.Role || got.Name != want.Name || got.PartnerID != want.PartnerID {
			t.Fatalf("%s: claims mismatch: got %+v want %+v", name, got, want)
		}
		if got.ExpiresAt == nil || !got.ExpiresAt.After(time.Now()) {
			t.Fatalf("%s: expected future expiry, got %v", name, got.ExpiresAt)
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: "user-1",
		Role:   "ADMIN",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}

	codec, _ := NewCodec(testSecret, time.Hour)
	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("codec accepted expired token: %v", err)
	}
	if _, err := VerifyHS256(tok, testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("hs256 accepted expired token: %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, _ := signedClaims(t)
	other := []byte("ffffffffffffffffffffffffffffffff")

	codec, _ := NewCodec(other, time.Hour)
	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("codec accepted token signed with different secret: %v", err)
	}
	if _, err := VerifyHS256(tok, other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("hs256 accepted token signed with different secret: %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	tok, _ := signedClaims(t)

	parts := strings.Split(tok, ".")
	payload, err := b64.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	forged := strings.Replace(string(payload), `"PARTNER"`, `"ADMIN"`, 1)
	tampered := parts[0] + "." + b64.EncodeToString([]byte(forged)) + "." + parts[2]

	codec, _ := NewCodec(testSecret, time.Hour)
	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("codec accepted tampered token: %v", err)
	}
	if _, err := VerifyHS256(tampered, testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("hs256 accepted tampered token: %v", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	codec, _ := NewCodec(testSecret, time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d", "%%%.%%%.%%%"} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("codec accepted malformed token %q: %v", tok, err)
		}
		if _, err := VerifyHS256(tok, testSecret); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("hs256 accepted malformed token %q: %v", tok, err)
		}
	}
}

func TestShortSecretFailsClosed(t *testing.T) {
	if _, err := NewCodec([]byte("short"), time.Hour); err == nil {
		t.Fatal("expected codec constructor to reject short secret")
	}

	tok, _ := signedClaims(t)
	if _, err := VerifyHS256(tok, []byte("short")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("hs256 verified with short secret: %v", err)
	}
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	claims := Claims{UserID: "user-1", Role: "ADMIN"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, &claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	codec, _ := NewCodec(testSecret, time.Hour)
	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("codec accepted alg=none token: %v", err)
	}
	if _, err := VerifyHS256(tok, testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("hs256 accepted alg=none token: %v", err)
	}
}
