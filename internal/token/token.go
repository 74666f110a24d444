// Package token implements the compact signed session token used as the sole
// authentication credential. Tokens are stateless: three base64url segments
// (header, claims, signature) joined by '.', signed with HMAC-SHA256 under a
// process-wide secret. Verification is pure and safe to run concurrently.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors returned by Verify. Anything not covered by a specific
// sentinel collapses into ErrInvalidToken so internal parse details never
// leak to callers.
var (
	ErrMalformedToken       = errors.New("malformed token")
	ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")
	ErrInvalidSignature     = errors.New("invalid token signature")
	ErrMissingExpiry        = errors.New("token has no expiration")
	ErrExpired              = errors.New("token has expired")
	ErrInvalidToken         = errors.New("invalid token")
)

const algorithm = "HS256"

// Claims is the payload carried by a token.
type Claims struct {
	Subject   uint
	ExpiresAt time.Time
}

// wireHeader and wireClaims are the serialized forms. Field order is fixed
// and keys stay sorted so the same logical claims always produce the same
// bytes.
type wireHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type wireClaims struct {
	Exp *int64 `json:"exp"`
	Sub string `json:"sub"`
}

// Codec issues and verifies tokens. The secret is injected once at
// construction and never mutated; construct one Codec per process.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec returns a Codec signing with the given secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// NewCodecWithClock returns a Codec with an injectable clock for tests.
func NewCodecWithClock(secret string, now func() time.Time) *Codec {
	return &Codec{secret: []byte(secret), now: now}
}

// Issue creates a signed token for the given subject expiring after ttl.
func (c *Codec) Issue(subject uint, ttl time.Duration) (string, error) {
	exp := c.now().Add(ttl).Unix()

	headerJSON, err := json.Marshal(wireHeader{Alg: algorithm, Typ: "JWT"})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(wireClaims{
		Exp: &exp,
		Sub: strconv.FormatUint(uint64(subject), 10),
	})
	if err != nil {
		return "", err
	}

	signingInput := encodeSegment(headerJSON) + "." + encodeSegment(claimsJSON)
	return signingInput + "." + encodeSegment(c.sign(signingInput)), nil
}

// Verify checks structure, signature and expiry, returning the decoded claims.
func (c *Codec) Verify(tok string) (Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformedToken
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	claimsJSON, err := decodeSegment(parts[1])
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	signature, err := decodeSegment(parts[2])
	if err != nil {
		return Claims{}, ErrMalformedToken
	}

	var header wireHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if header.Alg != algorithm {
		return Claims{}, ErrUnsupportedAlgorithm
	}

	// Constant-time compare; the signature must be checked before the claims
	// are even parsed so a forged payload is never interpreted.
	expected := c.sign(parts[0] + "." + parts[1])
	if !hmac.Equal(signature, expected) {
		return Claims{}, ErrInvalidSignature
	}

	var wire wireClaims
	if err := json.Unmarshal(claimsJSON, &wire); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if wire.Exp == nil {
		return Claims{}, ErrMissingExpiry
	}
	exp := time.Unix(*wire.Exp, 0)
	if !exp.After(c.now()) {
		return Claims{}, ErrExpired
	}

	subject, err := strconv.ParseUint(wire.Sub, 10, 32)
	if err != nil || subject == 0 {
		return Claims{}, ErrInvalidToken
	}

	return Claims{Subject: uint(subject), ExpiresAt: exp}, nil
}

func (c *Codec) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}

func encodeSegment(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(seg)
}
