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
	msgIncorrectCredentials = "Incorrect email or password"
	msgInvalidRefresh       = "Invalid refresh token"
	msgEmailRegistered      = "Email already registered"
	msgAdminExists          = "Admin user already exists"
	msgUserNotFound         = "User not found"

	MsgLoggedOut      = "Successfully logged out"
	MsgForgotPassword = "If the email exists, a password reset link has been sent"
	MsgAdminCreated   = "Admin user created successfully"
	MsgAlreadyAdmin   = "User is already an admin"
)

// AuthService orchestrates the register/login/refresh/promote/bootstrap flows.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Hasher *helpers.PasswordHasher
	Events EventPublisher
	Index  UserIndex
	Logger *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.PasswordHasher, events EventPublisher, index UserIndex, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:   repo,
		JWT:    jwt,
		Hasher: hasher,
		Events: events,
		Index:  index,
		Logger: orNop(logger),
	}
}

// RegisterInput is the client-supplied account data. Role is accepted for
// compatibility but never trusted.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     entity.Role
}

// Register creates a USER account and returns a fresh token pair.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Role = entity.RoleUser
	u, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(u)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	s.afterCreate(ctx, EventUserRegistered, u)
	return &AuthResult{TokenPair: pair, User: NewUserSummary(u)}, nil
}

// Login checks credentials without revealing which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).Error("login: user lookup failed")
			return nil, err
		}
		return nil, unauthorized(msgIncorrectCredentials)
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, unauthorized(msgIncorrectCredentials)
	}
	pair, err := s.issuePair(u)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Debug("user logged in")
	return &AuthResult{TokenPair: pair, User: NewUserSummary(u)}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token is not rotated, and the subject is not re-checked against the store:
// a deleted user keeps minting access tokens until the refresh token expires,
// though those access tokens fail identity resolution.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.JWT.Verify(refreshToken)
	if err != nil {
		return nil, unauthorized(msgInvalidRefresh)
	}
	email, ok := helpers.StringClaim(claims, helpers.ClaimSubject)
	if !ok {
		return nil, unauthorized(msgInvalidRefresh)
	}
	if typ, _ := helpers.StringClaim(claims, helpers.ClaimType); typ != helpers.TokenTypeRefresh {
		return nil, unauthorized(msgInvalidRefresh)
	}
	access, exp, err := s.JWT.IssueAccess(email)
	if err != nil {
		s.Logger.WithError(err).Error("refresh: sign access token failed")
		return nil, err
	}
	return &TokenPair{AccessToken: access, TokenType: TokenTypeBearer, AccessTokenExpiry: exp}, nil
}

// PromoteToAdmin grants ADMIN to the user with email. Promoting an admin is a no-op.
func (s *AuthService) PromoteToAdmin(ctx context.Context, actor *entity.User, email string) (*PromoteResult, error) {
	if _, err := RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, err
	}
	if u.Role == entity.RoleAdmin {
		return &PromoteResult{Message: MsgAlreadyAdmin}, nil
	}
	u.Role = entity.RoleAdmin
	if err := s.Repo.Update(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("promote: update failed")
		return nil, badRequest("failed to update user", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "actor_id": actor.ID}).Info("user promoted to admin")
	publish(ctx, s.Events, s.Logger, newUserEvent(EventUserPromoted, u, actor))
	if s.Index != nil {
		if err := s.Index.IndexUser(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
	summary := NewUserSummary(u)
	return &PromoteResult{Message: "User " + u.Email + " promoted to admin", User: &summary}, nil
}

// BootstrapAdmin creates the first admin. It only works while no admin
// exists; concurrent calls produce exactly one admin.
func (s *AuthService) BootstrapAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	exists, err := s.Repo.ExistsByRole(ctx, entity.RoleAdmin)
	if err != nil {
		s.Logger.WithError(err).Error("bootstrap: admin lookup failed")
		return nil, err
	}
	if exists {
		return nil, conflict(msgAdminExists)
	}
	in.Role = entity.RoleAdmin
	u, err := s.newUser(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateFirstAdmin(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrAdminExists):
			return nil, conflict(msgAdminExists)
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, conflict(msgEmailRegistered)
		}
		s.Logger.WithError(err).Error("bootstrap: insert failed")
		return nil, err
	}
	access, exp, err := s.JWT.IssueAccess(u.Email)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Warn("bootstrap admin created")
	s.afterCreate(ctx, EventUserBootstrapped, u)
	return &AuthResult{
		TokenPair: TokenPair{AccessToken: access, TokenType: TokenTypeBearer, AccessTokenExpiry: exp},
		User:      NewUserSummary(u),
	}, nil
}

// Logout always succeeds; stateless tokens stay valid until they expire.
func (s *AuthService) Logout(_ context.Context) string {
	return MsgLoggedOut
}

// ForgotPassword answers identically whether or not the email is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) string {
	if _, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email)); err != nil && !errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithError(err).Warn("forgot password: user lookup failed")
	}
	return MsgForgotPassword
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u, err := s.newUser(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost the race against a concurrent insert of the same email
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, conflict(msgEmailRegistered)
		}
		s.Logger.WithError(err).Error("create user: insert failed")
		return nil, err
	}
	return u, nil
}

// newUser checks the email is free and hashes the password; it does not persist.
func (s *AuthService) newUser(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, conflict(msgEmailRegistered)
	} else if !errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithError(err).Error("create user: lookup failed")
		return nil, err
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, badRequest("invalid password", err)
	}
	return &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
	}, nil
}

func (s *AuthService) issuePair(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.IssueAccess(u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.IssueRefresh(u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		RefreshToken:       refresh,
		TokenType:          TokenTypeBearer,
		AccessTokenExpiry:  aexp,
		RefreshTokenExpiry: rexp,
	}, nil
}

func (s *AuthService) afterCreate(ctx context.Context, eventType string, u *entity.User) {
	publish(ctx, s.Events, s.Logger, newUserEvent(eventType, u, nil))
	if s.Index != nil {
		if err := s.Index.IndexUser(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
}
