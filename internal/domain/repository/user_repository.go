package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique email constraint rejects a write.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAdminExists is returned by CreateFirstAdmin once any admin exists.
	ErrAdminExists = errors.New("admin user already exists")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
	ExistsByRole(ctx context.Context, role entity.Role) (bool, error)
	// CreateFirstAdmin inserts u as an admin only if no admin exists yet.
	// The check and the insert are atomic.
	CreateFirstAdmin(ctx context.Context, u *entity.User) error
}
