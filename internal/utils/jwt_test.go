package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testSubject         = "testuser"
	testSecret          = "test-secret-key-for-jwt-testing"
	testWrongSecret     = "wrong-secret-key-for-jwt-testing"
	testTokenDuration   = 1 * time.Hour
	testExpiredDuration = -1 * time.Hour
)

func TestGenerateToken_Success(t *testing.T) {
	// Act
	token, err := GenerateToken(testSubject, testSecret, jwt.SigningMethodHS256, testTokenDuration)

	// Assert
	require.NoError(t, err, "GenerateToken should not return error for valid input")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.Contains(t, token, ".", "JWT token should contain dots")
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, jwt.SigningMethodHS256, testTokenDuration)
	require.NoError(t, err, "Setup: GenerateToken should not fail")

	// Act
	claims, err := ValidateToken(token, testSecret)

	// Assert
	require.NoError(t, err, "ValidateToken should accept a freshly issued token")
	assert.Equal(t, testSubject, claims.Subject, "Subject should survive the round trip")
	assert.True(t, claims.ExpiresAt.Time.After(time.Now()), "Token should not be expired")
}

func TestGenerateToken_AllSigningMethods(t *testing.T) {
	algorithms := []string{"HS256", "HS384", "HS512"}

	for _, algorithm := range algorithms {
		t.Run(algorithm, func(t *testing.T) {
			method, err := SigningMethod(algorithm)
			require.NoError(t, err, "SigningMethod should resolve %s", algorithm)

			token, err := GenerateToken(testSubject, testSecret, method, testTokenDuration)
			require.NoError(t, err)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err, "All HMAC variants should validate")
			assert.Equal(t, testSubject, claims.Subject)
		})
	}
}

func TestSigningMethod_DefaultsToHS256(t *testing.T) {
	method, err := SigningMethod("")

	require.NoError(t, err)
	assert.Equal(t, jwt.SigningMethodHS256, method)
}

func TestSigningMethod_UnknownAlgorithm(t *testing.T) {
	_, err := SigningMethod("RS256")

	assert.ErrorIs(t, err, ErrUnknownSigningMethod, "Non-HMAC algorithms are not supported")
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	// A non-positive ttl falls back to the 15-minute default
	token, err := GenerateToken(testSubject, testSecret, jwt.SigningMethodHS256, 0)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 14*time.Minute, "Default expiry should be about 15 minutes out")
	assert.LessOrEqual(t, remaining, DefaultTokenTTL, "Default expiry should not exceed 15 minutes")
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	// Arrange: issue a token that expired an hour ago, bypassing the
	// default-ttl fallback in GenerateToken.
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(testExpiredDuration)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Act
	_, err = ValidateToken(token, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrExpiredToken, "Expired token should be rejected")
}

func TestValidateToken_WrongSecret(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, jwt.SigningMethodHS256, testTokenDuration)
	require.NoError(t, err)

	// Act
	_, err = ValidateToken(token, testWrongSecret)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidToken, "Token signed with another secret should be rejected")
}

func TestValidateToken_Malformed(t *testing.T) {
	malformedTokens := []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c",
	}

	for _, token := range malformedTokens {
		t.Run(token, func(t *testing.T) {
			_, err := ValidateToken(token, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_TamperedPayload(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, jwt.SigningMethodHS256, testTokenDuration)
	require.NoError(t, err)

	// Corrupt a byte inside the payload segment
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'x' {
		tampered[mid] = 'y'
	} else {
		tampered[mid] = 'x'
	}

	// Act
	_, err = ValidateToken(string(tampered), testSecret)

	// Assert
	assert.Error(t, err, "Tampered token should be rejected")
}

func TestValidateToken_MissingSubject(t *testing.T) {
	// Arrange: a signed, unexpired token without a subject
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(testTokenDuration)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Act
	_, err = ValidateToken(token, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidToken, "Token without a subject cannot be resolved to a user")
}

func TestValidateToken_RejectsNonHMAC(t *testing.T) {
	// Arrange: alg=none style token, signed with the unsafe allow-none key
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(testTokenDuration)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// Act
	_, err = ValidateToken(token, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidToken, "Only HMAC-signed tokens are accepted")
}
