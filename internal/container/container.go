package container

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/config"
	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/domain/repository"
	"github.com/oksasatya/sp-website-api/internal/infrastructure/search"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

// Container holds the components built at startup. It is constructed once in
// main and passed to the router; nothing in it is global.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Repo  repository.UserRepository
	Pool  *pgxpool.Pool
	Redis *redis.Client
	ES    *elasticsearch.Client

	JWT    *helpers.JWTManager
	Hasher *helpers.PasswordHasher
	Events application.EventPublisher
	Index  application.UserIndex

	Resolver *application.IdentityResolver
	Auth     *application.AuthService
	Users    *application.UserService
}

type Option func(*Container)

// WithPostgres records the pool so /health can ping it.
func WithPostgres(pool *pgxpool.Pool) Option {
	return func(c *Container) { c.Pool = pool }
}

func WithRedis(rdb *redis.Client) Option {
	return func(c *Container) { c.Redis = rdb }
}

// WithEvents ignores a nil publisher so Events stays a true nil interface.
func WithEvents(pub *helpers.RabbitPublisher) Option {
	return func(c *Container) {
		if pub != nil {
			c.Events = pub
		}
	}
}

func WithSearch(es *elasticsearch.Client, index *search.UserIndex) Option {
	return func(c *Container) {
		if es != nil && index != nil {
			c.ES = es
			c.Index = index
		}
	}
}

func New(cfg *config.Config, logger *logrus.Logger, repo repository.UserRepository, opts ...Option) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Repo:   repo,
		JWT:    helpers.NewJWTManager(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Hasher: helpers.NewPasswordHasher(cfg.BcryptCost),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Resolver = application.NewIdentityResolver(c.Repo, c.JWT, logger)
	c.Auth = application.NewAuthService(c.Repo, c.JWT, c.Hasher, c.Events, c.Index, logger)
	c.Users = application.NewUserService(c.Repo, c.Hasher, c.Events, c.Index, logger)
	return c
}

// RateLimiter returns the Redis client for limiters, or nil when limiting is off.
func (c *Container) RateLimiter() *redis.Client {
	if !c.Config.RateLimitEnabled {
		return nil
	}
	return c.Redis
}

// HealthChecks lists the pings for every configured backing service.
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if c.Pool != nil {
		checks["postgres"] = c.Pool.Ping
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return helpers.PingRedis(ctx, c.Redis) }
	}
	if c.ES != nil {
		checks["elasticsearch"] = func(ctx context.Context) error {
			res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = res.Body.Close() }()
			if res.IsError() {
				return errors.New("elasticsearch: " + res.Status())
			}
			return nil
		}
	}
	return checks
}
