package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/sp-website-api/config"
	"github.com/oksasatya/sp-website-api/internal/container"
	"github.com/oksasatya/sp-website-api/internal/domain/repository"
	"github.com/oksasatya/sp-website-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/sp-website-api/internal/infrastructure/postgres"
	"github.com/oksasatya/sp-website-api/internal/infrastructure/search"
	"github.com/oksasatya/sp-website-api/internal/interface/middleware"
	"github.com/oksasatya/sp-website-api/internal/router"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
	"github.com/oksasatya/sp-website-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.UsesDefaultSecret() {
		logger.Warn("using the placeholder SECRET_KEY; set one before deploying")
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	opts := []container.Option{}

	var repo repository.UserRepository
	if cfg.DatabaseURL != "" {
		pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, pginfra.PoolConfig{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
			AppName:         cfg.AppName,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()

		if err := pginfra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		repo = pginfra.NewUserRepository(pool)
		opts = append(opts, container.WithPostgres(pool))
	} else {
		logger.Warn("DATABASE_URL not set; using in-memory user store")
		repo = memory.NewUserRepository()
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			// limiter fails open, keep serving
			logger.WithError(err).Warn("redis unreachable")
		}
		opts = append(opts, container.WithRedis(rdb))
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; user events disabled")
		} else {
			defer pub.Close()
			opts = append(opts, container.WithEvents(pub))
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed; search disabled")
		} else {
			idx := search.NewUserIndex(es, cfg.ESUsersIndex)
			if err := idx.EnsureIndex(ctx); err != nil {
				// documents are still indexed with dynamic mapping
				logger.WithError(err).Warn("could not ensure users index")
			}
			opts = append(opts, container.WithSearch(es, idx))
		}
	}

	c := container.New(cfg, logger, repo, opts...)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP())
	}
	r.Use(middleware.CORS(cfg.CORSOrigins()))
	if cfg.HTTPLogEnabled || cfg.IsDevelopment() {
		r.Use(middleware.AccessLog(logger))
	}

	reg := router.NewRegistry(r, "")
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}
