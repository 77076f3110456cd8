package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "food-share"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the token handed to browsers. The token only
// names a session; the session record decides whether it is still valid.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret []byte) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	return &TokenCodec{secret: secret}, nil
}

// Issue creates a signed token for s.
func (c *TokenCodec) Issue(s Session) (string, error) {
	cl := claims{
		Role: string(s.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   strconv.FormatUint(uint64(s.UserID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return token.SignedString(c.secret)
}

// SessionID verifies the token and returns the session id it carries.
func (c *TokenCodec) SessionID(raw string) (string, error) {
	return c.parse(raw)
}

// SessionIDIgnoringExpiry verifies only the signature. Logout uses it so an
// expired cookie can still be cleaned up.
func (c *TokenCodec) SessionIDIgnoringExpiry(raw string) (string, error) {
	return c.parse(raw, jwt.WithoutClaimsValidation())
}

func (c *TokenCodec) parse(raw string, opts ...jwt.ParserOption) (string, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	cl := &claims{}
	token, err := jwt.ParseWithClaims(raw, cl, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", ErrNotFound)
	}
	if cl.ID == "" {
		return "", fmt.Errorf("%w: token has no session id", ErrNotFound)
	}
	return cl.ID, nil
}
