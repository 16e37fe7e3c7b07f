package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	"github.com/oksasatya/sp-website-api/internal/domain/repository"
)

// UserRepository keeps users in process memory. Email uniqueness is enforced
// under the same lock as the insert, mirroring the Postgres unique index.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[int64]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(u)
}

func (r *UserRepository) CreateFirstAdmin(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasRole(entity.RoleAdmin) {
		return repository.ErrAdminExists
	}
	u.Role = entity.RoleAdmin
	return r.insert(u)
}

// insert requires mu held for writing.
func (r *UserRepository) insert(u *entity.User) error {
	if r.emailTaken(u.Email, 0) {
		return repository.ErrDuplicateEmail
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	r.nextID++
	now := time.Now()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return repository.ErrDuplicateEmail
	}
	u.UpdatedAt = time.Now()
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	r.mu.RLock()
	all := make([]entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []entity.User{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *UserRepository) ExistsByRole(_ context.Context, role entity.Role) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasRole(role), nil
}

func (r *UserRepository) hasRole(role entity.Role) bool {
	for _, u := range r.byID {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (r *UserRepository) emailTaken(email string, exceptID int64) bool {
	for id, u := range r.byID {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

var _ repository.UserRepository = (*UserRepository)(nil)
