package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken("admin", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "forever")
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc", time.Now().Add(time.Hour).Unix())
	assert.True(t, svc.IsTokenRevoked("abc"))
}

func TestRevokeToken_PrunesExpired(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	svc.RevokeToken("old", time.Now().Add(-time.Minute).Unix())
	svc.RevokeToken("new", time.Now().Add(time.Hour).Unix())

	assert.False(t, svc.IsTokenRevoked("old"))
	assert.True(t, svc.IsTokenRevoked("new"))
}
