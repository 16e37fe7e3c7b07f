package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	handlers "github.com/oksasatya/sp-website-api/internal/interface/http"
	"github.com/oksasatya/sp-website-api/internal/interface/middleware"
)

// UserModule serves /users; every route needs a resolved caller.
type UserModule struct {
	Handler  *handlers.UserHandler
	Resolver middleware.Resolver
	Redis    *redis.Client
}

func NewUserModule(h *handlers.UserHandler, resolver middleware.Resolver, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Resolver: resolver, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(
		middleware.Auth(m.Resolver),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		users.GET("", m.Handler.List)
		users.GET("/search", middleware.RequireRole(entity.RoleAdmin), m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
