package auth

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	} else if !validator.IsValidUsername(r.Username) {
		errs.Add("username", "username must be 3-50 characters of letters, numbers, dots, underscores or hyphens")
	}

	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	}
	if len(r.Password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "confirm_password must match password")
	}

	if r.Role == "" {
		r.Role = string(user.RoleStaff)
	}
	if _, ok := user.ParseRole(r.Role); !ok {
		errs.Add("role", "role must be admin or staff")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

func NewUserResponse(u user.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// MeResponse describes the caller, read from the token claims.
type MeResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
