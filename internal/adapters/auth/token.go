package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campuseventhub/internal/domain"
)

// callerClaims is the token payload at the identity-provider boundary: a
// stable subject plus a single role claim. The engine trusts these claims and
// performs no credential verification.
type callerClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type jwtCodec struct {
	secret []byte
	expiry time.Duration
}

// NewJWTCodec returns a TokenIssuer/TokenVerifier pair backed by HS256 with
// the given secret. Issued tokens carry the caller ID as subject and the role
// as a dedicated claim.
func NewJWTCodec(secret string, expiry time.Duration) interface {
	domain.TokenIssuer
	domain.TokenVerifier
} {
	return &jwtCodec{secret: []byte(secret), expiry: expiry}
}

func (c *jwtCodec) Issue(caller domain.Caller) (string, error) {
	now := time.Now()
	claims := callerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
		Role: string(caller.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (c *jwtCodec) Verify(tokenString string) (domain.Caller, error) {
	claims := &callerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return domain.Caller{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return domain.Caller{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return domain.Caller{}, errors.New("token missing subject")
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("token role: %w", err)
	}
	return domain.Caller{ID: claims.Subject, Role: role}, nil
}
