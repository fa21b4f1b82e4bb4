// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmptySecret     = errors.New("signing secret must not be empty")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID   string
	Role string
}

// Claims is the JWT payload issued on signup and login.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateID creates a random UUID for database records
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return id.String(), nil
}

// GenerateToken signs an HS256 token for the identity, valid for ttl from now.
func GenerateToken(id Identity, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	claims := Claims{
		ID:   id.ID,
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the bearer identity.
// Every failure is reported as ErrInvalidToken.
func ParseToken(tokenString string, secret []byte) (Identity, error) {
	if tokenString == "" || len(secret) == 0 {
		return Identity{}, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: claims.ID, Role: claims.Role}, nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
