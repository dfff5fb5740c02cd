package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword accepts bcrypt hashes and the unsalted SHA-256 hex digests
// written by the previous system.
func checkPassword(hash, password string) bool {
	if isLegacySHA256(hash) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(hex.EncodeToString(sum[:]))) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func isLegacySHA256(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// Verify implements auth.AuthService.
func (a *AuthServiceImpl) Verify(ctx context.Context, username, password string) (user.Role, error) {
	userData, err := a.UserRepository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", auth.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if userData.PasswordHash == "" || !checkPassword(userData.PasswordHash, password) {
		return "", auth.ErrInvalidCredentials
	}

	if isLegacySHA256(userData.PasswordHash) {
		slog.Warn("login with legacy password hash", "username", username)
	}

	return userData.Role, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.UserResponse{}, err
	}

	exists, err := a.UserRepository.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return auth.UserResponse{}, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return auth.UserResponse{}, user.ErrUsernameExists
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role, _ := user.ParseRole(req.Role)
	created, err := a.UserRepository.Create(ctx, user.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return auth.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return auth.NewUserResponse(created), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	role, err := a.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(req.Username, role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    req.Username,
		Role:        string(role),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}

	decoded, err := a.Service.JWTAuth().Decode(token)
	if err != nil {
		return auth.ErrInvalidToken
	}

	a.Service.RevokeToken(token, decoded.Expiration().Unix())
	return nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	exists, err := a.UserRepository.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return false, nil
	}

	_, err = a.Register(ctx, auth.RegisterRequest{
		Username: username,
		Password: password,
		Role:     string(user.RoleAdmin),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
