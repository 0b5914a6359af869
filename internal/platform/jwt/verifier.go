package jwtmw

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity fields carried by an access token.
type Claims struct {
	UserID uint
	Email  string
	Role   string
}

// Verifier checks access tokens signed by a generator with the same secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses the token and returns its claims.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		// only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	// JWT numbers are decoded as float64
	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)
	return &Claims{UserID: uint(sub), Email: email, Role: role}, nil
}
