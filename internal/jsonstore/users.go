package jsonstore

import (
	"context"

	"github.com/nhasan/channelhub/internal/domain"
)

// UserRepo implements domain.UserRepository backed by a single JSON file.
type UserRepo struct {
	path string
}

// NewUserRepo creates a UserRepo persisting to the given file path.
func NewUserRepo(path string) *UserRepo {
	return &UserRepo{path: path}
}

func (r *UserRepo) Load(ctx context.Context) (map[string]domain.User, error) {
	users := make(map[string]domain.User)
	if err := loadDocument(ctx, r.path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Save(ctx context.Context, users map[string]domain.User) error {
	return saveDocument(ctx, r.path, users, false)
}
