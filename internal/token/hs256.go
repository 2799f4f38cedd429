package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

var b64 = base64.RawURLEncoding

// VerifyHS256 validates a compact HS256 token using only hash primitives.
// It exists for the page gate, which must not depend on the jwt library,
// and must accept exactly the tokens Codec.Sign produces. Like Codec.Verify
// it fails closed: every rejection is ErrInvalidToken.
func VerifyHS256(tokenStr string, secret []byte) (Claims, error) {
	if len(secret) < MinSecretLen {
		return Claims{}, ErrInvalidToken
	}

	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	headerBytes, err := b64.DecodeString(parts[0])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil || header.Alg != "HS256" {
		return Claims{}, ErrInvalidToken
	}

	sig, err := b64.DecodeString(parts[2])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Claims{}, ErrInvalidToken
	}

	payload, err := b64.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	// exp is validated only when present, matching the jwt library's default.
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
