package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("ops", "company-1")
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "ops", token.Subject())

	companyID, ok := token.Get(ClaimCompanyID)
	require.True(t, ok)
	assert.Equal(t, "company-1", companyID)

	tokenType, ok := token.Get(ClaimType)
	require.True(t, ok)
	assert.Equal(t, TokenTypeAccess, tokenType)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "one hour")

	_, _, err := svc.GenerateAccessToken("ops", "company-1")
	assert.Error(t, err)
}

func TestDecode_WrongSecret(t *testing.T) {
	tokenString, _, err := NewJWTService("secret-a", "1h").GenerateAccessToken("ops", "company-1")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", "1h").JWTAuth().Decode(tokenString)
	assert.Error(t, err)
}
