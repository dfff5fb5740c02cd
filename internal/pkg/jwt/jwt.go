package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(username string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// RevokeToken rejects token until expiresAt (unix seconds).
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	revokedTokens         map[string]int64
	mu                    sync.RWMutex
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:         make(map[string]int64),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(username string, role user.Role) (token string, expiresAt int64, err error) {
	now := j.now()
	expiresAt = now.Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sub":      username,
		"username": username,
		"role":     string(role),
		"type":     TokenTypeAccess,
		"iat":      now.Unix(),
		"exp":      expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	// expired tokens fail verification anyway
	now := j.now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
