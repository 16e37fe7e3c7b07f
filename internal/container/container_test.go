package container

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/sp-website-api/config"
	"github.com/oksasatya/sp-website-api/internal/infrastructure/memory"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:       "s",
		BcryptCost:      bcrypt.MinCost,
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func TestNew_OptionalBackendsStayNil(t *testing.T) {
	c := New(testConfig(), helpers.NopLogger(), memory.NewUserRepository(),
		WithEvents(nil),
		WithSearch(nil, nil),
	)
	require.NotNil(t, c.Auth)
	require.NotNil(t, c.Users)
	require.NotNil(t, c.Resolver)

	// a typed nil inside the interface would panic on first publish
	assert.Nil(t, c.Events)
	assert.Nil(t, c.Index)
	assert.Nil(t, c.Auth.Events)
	assert.Empty(t, c.HealthChecks())
}

func TestRateLimiter(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	c := New(cfg, helpers.NopLogger(), memory.NewUserRepository(), WithRedis(rdb))
	assert.Nil(t, c.RateLimiter())

	cfg.RateLimitEnabled = true
	assert.Same(t, rdb, c.RateLimiter())
	assert.Contains(t, c.HealthChecks(), "redis")
}
