package application

import (
	"time"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
)

const TokenTypeBearer = "bearer"

// UserSummary is the outward view of a user. The password hash never leaves the service.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func NewUserSummary(u *entity.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role.String()}
}

// TokenPair is returned by register/login; refresh and bootstrap fill only the access token.
type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	RefreshToken       string    `json:"refresh_token,omitempty"`
	TokenType          string    `json:"token_type"`
	AccessTokenExpiry  time.Time `json:"-"`
	RefreshTokenExpiry time.Time `json:"-"`
}

// UserPage is one page of users with the limit and offset actually applied.
type UserPage struct {
	Users  []UserSummary
	Limit  int
	Offset int
}

// AuthResult bundles tokens and the authenticated user.
type AuthResult struct {
	TokenPair
	User UserSummary `json:"user"`
}

type PromoteResult struct {
	Message string       `json:"message"`
	User    *UserSummary `json:"user,omitempty"`
}
