package user

import (
	"context"
)

type UserRepository interface {
	// GetByUsername returns the oldest credential with the given username.
	GetByUsername(ctx context.Context, username string) (User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, newUser User) (User, error)
	List(ctx context.Context) ([]User, error)
}
