package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT claims for an access token: subject (user id), email,
// and the registered expiry/issuer set.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenProvider issues and decodes bearer access tokens signed with HMAC-SHA256
// using a server-held secret.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenProvider returns a TokenProvider signing with secret. issuer is set
// as the iss claim and checked on decode. ttl is the access token lifetime.
func NewTokenProvider(secret []byte, issuer string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue signs an access token for the given user id and email, expiring
// ttl from now. Returns the token string and its expiry.
func (p *TokenProvider) Issue(userID, email string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Decode verifies signature, algorithm, expiry, and issuer, and returns the
// claims, or nil on any failure (expired, malformed, wrong signature, wrong
// signing method). Decode has no side effects.
func (p *TokenProvider) Decode(tokenString string) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuer(p.issuer))
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil
	}
	return claims
}
