package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	repo "github.com/oksasatya/sp-website-api/internal/domain/repository"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

const credentialsMessage = "Could not validate credentials"

// IdentityResolver maps a presented access token to a stored user.
type IdentityResolver struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewIdentityResolver(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *IdentityResolver {
	return &IdentityResolver{Repo: repo, JWT: jwt, Logger: orNop(logger)}
}

// Resolve fails with the same Unauthorized error whether the token is bad,
// expired, lacks a subject, or names a user that no longer exists.
//
// Refresh tokens (type "refresh") are rejected here even though they verify:
// they may only be exchanged at /auth/refresh, never presented as bearer
// credentials.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := r.JWT.Verify(token)
	if err != nil {
		return nil, unauthorized(credentialsMessage)
	}
	email, ok := helpers.StringClaim(claims, helpers.ClaimSubject)
	if !ok {
		return nil, unauthorized(credentialsMessage)
	}
	if typ, _ := helpers.StringClaim(claims, helpers.ClaimType); typ == helpers.TokenTypeRefresh {
		return nil, unauthorized(credentialsMessage)
	}
	u, err := r.Repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			r.Logger.WithError(err).Error("resolve identity: user lookup failed")
		}
		return nil, unauthorized(credentialsMessage)
	}
	return u, nil
}

// RequireRole passes the user through when it holds role, else Forbidden.
func RequireRole(u *entity.User, role entity.Role) (*entity.User, error) {
	if u == nil {
		return nil, unauthorized(credentialsMessage)
	}
	if u.Role != role {
		if role == entity.RoleAdmin {
			return nil, forbidden("Admin access required")
		}
		return nil, forbidden("insufficient role")
	}
	return u, nil
}

func orNop(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return helpers.NopLogger()
}
