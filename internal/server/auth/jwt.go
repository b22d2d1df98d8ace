// Package auth issues and verifies the HS256 JWTs used by the backend:
// access tokens carried in gRPC metadata and single-purpose email
// confirmation tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const purposeConfirmEmail = "confirm_email"

// Claims are the registered claims plus the user identity.
// Purpose is empty for access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// GenerateToken signs an access token for the user valid for validityDuration.
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
	}, secretKey)
}

// GenerateConfirmationToken signs a token that can only be redeemed by
// ParseConfirmationToken.
func GenerateConfirmationToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:  userID,
		Purpose: purposeConfirmEmail,
	}, secretKey)
}

func sign(c Claims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func parse(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ParseToken verifies an access token. Expiry yields common.ErrTokenExpired,
// anything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims, err := parse(tokenString, secretKey)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ParseConfirmationToken returns the user id of a valid confirmation token.
func ParseConfirmationToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := parse(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	if claims.Purpose != purposeConfirmEmail {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
