package document

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

type userRepositoryImpl struct {
	base
	collection string
	now        func() time.Time
}

func NewUserRepository(store docstore.Store, collection string, timeout time.Duration) user.UserRepository {
	if collection == "" {
		collection = "users"
	}
	return &userRepositoryImpl{
		base:       newBase(store, timeout),
		collection: collection,
		now:        time.Now,
	}
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	docs, err := r.query(ctx, r.store.Collection(r.collection), docstore.Where("username", docstore.OpEqual, username).WithLimit(1))
	if err != nil {
		return user.User{}, err
	}
	if len(docs) == 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return toUser(docs[0]), nil
}

// ExistsByUsername implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	docs, err := r.query(ctx, r.store.Collection(r.collection), docstore.Where("username", docstore.OpEqual, username).WithLimit(1))
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if newUser.CreatedAt.IsZero() {
		newUser.CreatedAt = r.now().UTC()
	}
	data := docstore.Data{
		"username":   newUser.Username,
		"password":   newUser.PasswordHash,
		"role":       string(newUser.Role),
		"created_at": newUser.CreatedAt.Format(time.RFC3339Nano),
	}

	id, err := r.add(ctx, r.store.Collection(r.collection), data)
	if err != nil {
		return user.User{}, err
	}
	newUser.ID = id
	return newUser, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	docs, err := r.get(ctx, r.store.Collection(r.collection))
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, toUser(doc))
	}
	return users, nil
}

func toUser(doc docstore.Document) user.User {
	role, ok := user.ParseRole(str(doc.Data, "role"))
	if !ok {
		role = user.RoleStaff
	}
	return user.User{
		ID:           doc.ID,
		Username:     str(doc.Data, "username"),
		PasswordHash: str(doc.Data, "password", "password_hash"),
		Role:         role,
		CreatedAt:    parseCreatedAt(doc.Data),
	}
}
