/*
token.go - Signed principal tokens

PURPOSE:
  Models the host platform's session as a signed HS256 token carrying the
  subject, display name, and a single role label. The core never manages
  credentials; it only verifies what the identity boundary hands over.
*/
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload for this system.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies and issues principal tokens and mints anti-forgery
// tokens scoped to the same secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. ttl bounds issued token lifetime.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// IssueToken signs a token for the given subject. Used by the dev token
// generator and tests; production tokens come from the host platform.
func (s *Service) IssueToken(subject, name, roleLabel string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name: name,
		Role: roleLabel,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "tripboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken validates a token and translates it into a Principal.
// Unknown role labels yield an unauthenticated principal.
func (s *Service) VerifyToken(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("invalid token claims")
	}

	return Principal{
		Subject: claims.Subject,
		Name:    claims.Name,
		Role:    ParseRole(claims.Role),
	}, nil
}
