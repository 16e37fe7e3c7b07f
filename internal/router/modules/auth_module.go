package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
	handlers "github.com/oksasatya/sp-website-api/internal/interface/http"
	"github.com/oksasatya/sp-website-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler  *handlers.AuthHandler
	Resolver middleware.Resolver
	Redis    *redis.Client
	Allow    middleware.AllowFunc
}

func NewAuthModule(h *handlers.AuthHandler, resolver middleware.Resolver, rdb *redis.Client, allow middleware.AllowFunc) *AuthModule {
	return &AuthModule{Handler: h, Resolver: resolver, Redis: rdb, Allow: allow}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), m.Allow)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), m.Allow)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), m.Allow)
	sensitiveLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), m.Allow)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/forgot-password", sensitiveLimiter, m.Handler.ForgotPassword)
	auth.POST("/create-admin", sensitiveLimiter, m.Handler.CreateAdmin)

	authed := auth.Group("")
	authed.Use(middleware.Auth(m.Resolver))
	{
		authed.GET("/me", m.Handler.Me)
		authed.POST("/promote-to-admin", middleware.RequireRole(entity.RoleAdmin), m.Handler.PromoteToAdmin)
	}
}
