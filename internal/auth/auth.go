// Package auth issues and checks the tokens that gate the admin routes.
// There is a single shared secret; the token only proves it was presented.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

// ClaimsKey is where middleware.Authentication stores the validated Claims.
const ClaimsKey ctxKey = "claims"

const (
	RoleAdmin = "ADMIN"

	issuer     = "storefront"
	defaultTTL = 12 * time.Hour
)

var ErrInvalidSecret = errors.New("invalid admin secret")

type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole reports whether role is among the token's roles.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

type Keys struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewKeys(secret string) (*Keys, error) {
	if secret == "" {
		return nil, errors.New("admin secret must not be empty")
	}
	return &Keys{secret: []byte(secret), ttl: defaultTTL, now: time.Now}, nil
}

// Login exchanges the shared secret for a signed admin token.
func (k *Keys) Login(secret string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(secret), k.secret) != 1 {
		return "", ErrInvalidSecret
	}
	now := k.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(k.ttl)),
		},
		Roles: []string{RoleAdmin},
	}
	return k.GenerateToken(claims)
}

func (k *Keys) GenerateToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return k.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(k.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return claims, nil
}
