package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "test-secret-key-that-is-long-enough"
	token, err := GenerateJWT("user-1", "manager", secret, time.Hour, "erp-test")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "erp-test", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseJWT_Expired(t *testing.T) {
	secret := "test-secret-key-that-is-long-enough"
	token, err := GenerateJWT("user-1", "admin", secret, -time.Minute, "erp-test")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
