package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type AuthService interface {
	// Verify checks a username/password pair and returns the account role.
	Verify(ctx context.Context, username, password string) (user.Role, error)

	// Register creates a credential. Returns user.ErrUsernameExists for a
	// taken username.
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)

	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error

	// EnsureAdmin creates the admin account unless the username is taken.
	EnsureAdmin(ctx context.Context, username, password string) (created bool, err error)
}
