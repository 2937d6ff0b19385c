package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret-key-that-is-long-enough-123", "rahhal-admin", 15*time.Minute, 24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken("user-1", "admin@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.GenerateRefreshToken("user-1", "admin@example.com", true)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewService("another-secret-key-that-is-long-enough", "rahhal-admin", 15*time.Minute, 24*time.Hour)

	token, err := svc.GenerateAccessToken("user-1", "admin@example.com", false)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret-key-that-is-long-enough-123", "rahhal-admin", -time.Minute, 24*time.Hour)

	token, err := svc.GenerateAccessToken("user-1", "admin@example.com", false)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}
