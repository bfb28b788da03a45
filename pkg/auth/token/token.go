package token

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken means the presented token cannot be trusted:
// malformed, badly signed, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Verifier checks bearer tokens signed with a shared HMAC key.
type Verifier struct {
	key []byte
}

// NewVerifier builds a Verifier from a base64 (standard encoding) HMAC key.
func NewVerifier(base64Key string) (*Verifier, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("token key is not base64: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("token key is empty")
	}
	return &Verifier{key: key}, nil
}

// Verify parses and verifies a token and extracts the user id from its
// "sub" claim.
//
// # Returns
//
// - string: user id.
//
// - error: ErrInvalidToken (malformed, signature mismatch, expired, or
// no subject), or other errors on unexpected failures.
func (v *Verifier) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return v.key, nil
		},
	)

	if errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenExpired) {
		return "", errors.Join(ErrInvalidToken, err)
	} else if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", fmt.Errorf(`%w: no "sub" claim`, ErrInvalidToken)
	}
	return claims.Subject, nil
}
