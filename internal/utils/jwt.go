package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token expired")
	ErrUnknownSigningMethod = errors.New("unknown signing method")
)

// DefaultTokenTTL applies when no expiry is configured.
const DefaultTokenTTL = 15 * time.Minute

// Claims carries the token payload: the subject is the username the token
// was issued for.
type Claims struct {
	jwt.RegisteredClaims
}

// SigningMethod resolves a configured algorithm name to a jwt.SigningMethod.
// Only the HMAC family is supported; tokens are signed with a shared secret.
func SigningMethod(name string) (jwt.SigningMethod, error) {
	switch name {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, ErrUnknownSigningMethod
	}
}

// GenerateToken issues a signed token for the subject, expiring after ttl.
// A non-positive ttl falls back to DefaultTokenTTL.
func GenerateToken(subject, secretKey string, method jwt.SigningMethod, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(method, claims)

	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken verifies the signature and expiry and returns the claims.
// Any malformed, tampered or expired token is rejected.
func ValidateToken(tokenString, secretKey string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// A token without a subject cannot be resolved to a user.
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
