// Copyright (c) 2026 Rokto. All rights reserved.

// Package sec provides the security primitives of the API: identity token
// management, the token cookie transport, and role definitions.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. It acts
// as an Infrastructure service injected into the HTTP layer via the
// middleware.TokenVerifier interface.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside an identity token.
//
// # Why only an email?
//
// Identity is asserted by the upstream identity provider; the token binds that
// assertion to the `email` claim. Role and status are deliberately NOT in the
// token — they are persisted state owned by admins, so role gates resolve them
// from the store on every request instead of trusting a stale claim.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

// TokenService handles generation and verification of identity tokens.
//
// Tokens are signed with a process-wide symmetric secret (HS256) and expire
// after a fixed lifetime.
type TokenService struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer string, lifetime time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
	}, nil
}

// Lifetime returns the configured token lifetime. The cookie transport uses it
// so the cookie max-age always matches token expiry.
func (service *TokenService) Lifetime() time.Duration {
	return service.lifetime
}

// Issue creates a signed identity token bound to the given email claim.
func (service *TokenService) Issue(email string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.lifetime)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a token string.
//
// Expired tokens and forged signatures both return an opaque error; callers
// map every failure to the same Unauthorized response and never disclose
// which check failed.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
