package application

import (
	"context"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
)

// UserIndex is a secondary search index over users.
type UserIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	DeleteUser(ctx context.Context, id int64) error
	SearchUsers(ctx context.Context, q string, size int) ([]UserSummary, error)
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
	}
}

func (s *UserService) unindex(ctx context.Context, id int64) {
	if s.Index == nil {
		return
	}
	if err := s.Index.DeleteUser(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("unindex user failed")
	}
}
