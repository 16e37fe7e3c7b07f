package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
	"github.com/oksasatya/sp-website-api/pkg/response"
)

const ctxUserKey = "currentUser"

// Resolver turns a bearer token into the stored user.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
}

// Auth resolves the caller once per request from the Authorization header,
// falling back to the access_token cookie, and stores the user in the Gin context.
func Auth(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortWith(c, application.AsAppError(application.ErrUnauthorized), "not authenticated")
			return
		}
		u, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			ae := application.AsAppError(err)
			abortWith(c, ae, ae.Message)
			return
		}
		c.Set(ctxUserKey, u)
		c.Set("userID", u.ID)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := application.RequireRole(CurrentUser(c), role); err != nil {
			ae := application.AsAppError(err)
			abortWith(c, ae, ae.Message)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by Auth, or nil on public routes.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}

func abortWith(c *gin.Context, ae *application.AppError, msg string) {
	if ae.Kind == application.KindUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	response.Abort(c, response.Error[any](c, ae.Status(), msg, nil))
}
