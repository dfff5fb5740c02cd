package user

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameExists         = errors.New("username already exists")
	ErrInvalidRole            = errors.New("role must be admin or staff")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrStoreUnavailable       = docstore.ErrUnavailable
)
