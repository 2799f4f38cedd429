package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the shortest signing secret either verifier accepts.
const MinSecretLen = 32

// ErrInvalidToken covers every verification failure: malformed input, bad
// signature, expiry, wrong algorithm or an unusable secret. Verification
// fails closed; callers never learn which check rejected the token.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload carried by the session cookie. Changing this
// shape requires updating VerifyHS256 fixtures in lockstep: both verifiers
// must keep accepting the same token bytes.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	PartnerID string `json:"partnerId,omitempty"`
}

// Codec signs and verifies session tokens with a symmetric HS256 secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec. Secrets shorter than MinSecretLen are rejected up
// front so a misconfigured deployment fails fast instead of minting weak tokens.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Codec{secret: secret, ttl: ttl}, nil
}

// TTL returns the configured token lifetime. The login handler reuses it for
// the cookie max-age so cookie and token expire together.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign stamps issue and expiry times onto the claims and returns a compact
// signed token.
func (c *Codec) Sign(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Any failure
// yields ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
