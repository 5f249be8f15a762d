package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testTokenProvider(ttl time.Duration) *TokenProvider {
	return NewTokenProvider([]byte("test-secret"), "control-plane", ttl)
}

func TestTokenProvider_IssueAndDecode(t *testing.T) {
	p := testTokenProvider(15 * time.Minute)
	token, expiresAt, err := p.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expiry should be in the future")
	}

	claims := p.Decode(token)
	if claims == nil {
		t.Fatal("Decode returned nil for a freshly issued token")
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "ada@example.com")
	}
}

func TestTokenProvider_DecodeExpired(t *testing.T) {
	p := testTokenProvider(-1 * time.Second)
	token, _, err := p.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if p.Decode(token) != nil {
		t.Fatal("Decode should reject an expired token")
	}
}

func TestTokenProvider_DecodeMalformed(t *testing.T) {
	p := testTokenProvider(15 * time.Minute)
	for _, bad := range []string{"", "garbage", "a.b.c", "ey.ey.ey"} {
		if p.Decode(bad) != nil {
			t.Errorf("Decode(%q) should return nil", bad)
		}
	}
}

func TestTokenProvider_DecodeWrongSecret(t *testing.T) {
	p := testTokenProvider(15 * time.Minute)
	token, _, _ := p.Issue("user-1", "ada@example.com")

	other := NewTokenProvider([]byte("different-secret"), "control-plane", 15*time.Minute)
	if other.Decode(token) != nil {
		t.Fatal("Decode should reject a token signed with a different secret")
	}
}

func TestTokenProvider_DecodeWrongIssuer(t *testing.T) {
	other := NewTokenProvider([]byte("test-secret"), "someone-else", 15*time.Minute)
	token, _, _ := other.Issue("user-1", "ada@example.com")

	p := testTokenProvider(15 * time.Minute)
	if p.Decode(token) != nil {
		t.Fatal("Decode should reject a token from another issuer")
	}
}

func TestTokenProvider_DecodeRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must not be accepted even with a valid-looking payload.
	p := testTokenProvider(15 * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "control-plane",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if p.Decode(unsigned) != nil {
		t.Fatal("Decode should reject alg=none tokens")
	}
}

func TestTokenProvider_DecodeTampered(t *testing.T) {
	p := testTokenProvider(15 * time.Minute)
	token, _, _ := p.Issue("user-1", "ada@example.com")

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if p.Decode(tampered) != nil {
		t.Fatal("Decode should reject a tampered payload")
	}
}
