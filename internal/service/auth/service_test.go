package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestAuthService(t *testing.T, store docstore.Store) (auth.AuthService, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	repo := document.NewUserRepository(store, "users", time.Second)
	return NewAuthService(repo, jwtService), jwtService
}

func TestRegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, docstore.NewMemoryStore())

	created, err := svc.Register(ctx, auth.RegisterRequest{Username: "jane", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "jane", created.Username)
	assert.Equal(t, string(user.RoleStaff), created.Role)

	role, err := svc.Verify(ctx, "jane", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStaff, role)

	_, err = svc.Verify(ctx, "jane", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegister_StoresBcryptHash(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	svc, _ := newTestAuthService(t, store)

	_, err := svc.Register(ctx, auth.RegisterRequest{Username: "jane", Password: "password123"})
	require.NoError(t, err)

	docs, err := store.Collection("users").Get(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	hash := docs[0].Data["password"].(string)
	assert.NotEqual(t, "password123", hash)
	assert.Contains(t, hash, "$2")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, docstore.NewMemoryStore())

	_, err := svc.Register(ctx, auth.RegisterRequest{Username: "jane", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, auth.RegisterRequest{Username: "jane", Password: "another-pass"})
	assert.ErrorIs(t, err, user.ErrUsernameExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t, docstore.NewMemoryStore())

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Username: "x", Password: "short", Role: "owner"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := verrs.ToMap()
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}

func TestVerify_LegacySHA256Hash(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	sum := sha256.Sum256([]byte("admin123"))
	require.NoError(t, store.Seed("users", docstore.Document{ID: "1", Data: docstore.Data{
		"username": "admin",
		"password": hex.EncodeToString(sum[:]),
		"role":     "admin",
	}}))
	svc, _ := newTestAuthService(t, store)

	role, err := svc.Verify(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, role)

	_, err = svc.Verify(ctx, "admin", "admin124")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newTestAuthService(t, docstore.NewMemoryStore())

	_, err := svc.Register(ctx, auth.RegisterRequest{Username: "boss", Password: "password123", Role: "admin"})
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, auth.LoginRequest{Username: "boss", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, "admin", tokens.Role)

	require.NoError(t, svc.Logout(ctx, tokens.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(tokens.AccessToken))

	assert.ErrorIs(t, svc.Logout(ctx, "not-a-token"), auth.ErrInvalidToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t, docstore.NewMemoryStore())

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "ghost", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, docstore.NewMemoryStore())

	created, err := svc.EnsureAdmin(ctx, "admin", "admin-password")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "admin-password")
	require.NoError(t, err)
	assert.False(t, created)

	role, err := svc.Verify(ctx, "admin", "admin-password")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, role)
}
