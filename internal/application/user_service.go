package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	repo "github.com/oksasatya/sp-website-api/internal/domain/repository"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// UserService implements the user resource. Every method takes the already
// resolved caller as actor.
type UserService struct {
	Repo   repo.UserRepository
	Hasher *helpers.PasswordHasher
	Events EventPublisher
	Index  UserIndex
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, hasher *helpers.PasswordHasher, events EventPublisher, index UserIndex, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, Events: events, Index: index, Logger: orNop(logger)}
}

type UpdateProfileInput struct {
	Name     string
	Password string
}

// List returns a page of users. Admins only. Limit defaults to 50 and is capped at 200.
func (s *UserService) List(ctx context.Context, actor *entity.User, limit, offset int) (*UserPage, error) {
	if _, err := RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, NewUserSummary(&users[i]))
	}
	return &UserPage{Users: out, Limit: limit, Offset: offset}, nil
}

// Get returns one user to itself or to an admin.
func (s *UserService) Get(ctx context.Context, actor *entity.User, id int64) (*UserSummary, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, forbidden("not allowed to view another user's profile")
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := NewUserSummary(u)
	return &summary, nil
}

// UpdateProfile changes name and/or password. Users may edit only themselves; admins anyone.
func (s *UserService) UpdateProfile(ctx context.Context, actor *entity.User, id int64, in UpdateProfileInput) (*UserSummary, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, forbidden("not allowed to edit another user's profile")
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.Password != "" {
		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return nil, badRequest("invalid password", err)
		}
		u.PasswordHash = hash
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		s.Logger.WithError(err).WithField("user_id", id).Error("update user failed")
		return nil, badRequest("failed to update user", err)
	}
	s.index(ctx, u)
	summary := NewUserSummary(u)
	return &summary, nil
}

// Delete removes a user. The admin check comes first, so a regular user
// deleting itself is refused as a non-admin.
func (s *UserService) Delete(ctx context.Context, actor *entity.User, id int64) error {
	if !actor.IsAdmin() {
		return forbidden("only admins can delete users")
	}
	if actor.ID == id {
		return forbidden("admins cannot delete themselves")
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(msgUserNotFound)
		}
		s.Logger.WithError(err).WithField("user_id", id).Error("delete user failed")
		return badRequest("failed to delete user", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": id, "actor_id": actor.ID}).Info("user deleted")
	s.unindex(ctx, id)
	publish(ctx, s.Events, s.Logger, newUserEvent(EventUserDeleted, u, actor))
	return nil
}

// Search queries the user index. Admins only; empty when no index is configured.
func (s *UserService) Search(ctx context.Context, actor *entity.User, q string, size int) ([]UserSummary, error) {
	if _, err := RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if s.Index == nil {
		return []UserSummary{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.SearchUsers(ctx, strings.TrimSpace(q), size)
}

func (s *UserService) load(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, err
	}
	return u, nil
}
