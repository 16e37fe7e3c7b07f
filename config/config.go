package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const defaultSecretKey = "your-secret-key-here"

// Config holds application configuration loaded from environment variables.
// It is built once at process start and handed to constructors.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Debug   bool
	Port    string
	GinMode string

	// Signing secret shared by access and refresh tokens
	SecretKey string

	// Database
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Auth
	BcryptCost      int
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Cookies (optional token transport next to the Authorization header)
	CookieEnabled bool
	CookieDomain  string
	CookieSecure  bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string

	// Redis (rate limiting)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RateLimitEnabled bool

	// RabbitMQ (user lifecycle events)
	RabbitMQURL         string
	RabbitMQEventsQueue string

	// Mailgun
	MailgunDomain   string
	MailgunAPIKey   string
	MailgunSender   string
	MailSendEnabled bool

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// HTTP access log toggle
	HTTPLogEnabled bool
	// Honor CF-Connecting-IP / X-Forwarded-For for client IPs
	TrustProxyHeaders bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "SP Website API"),
		Env:     getenv("APP_ENV", "development"),
		Debug:   getbool("DEBUG", false),
		Port:    getenv("PORT", "8000"),
		GinMode: getenv("GIN_MODE", "release"),

		SecretKey: getenv("SECRET_KEY", defaultSecretKey),

		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		BcryptCost:      getint("BCRYPT_COST", bcrypt.DefaultCost),
		AccessTokenTTL:  getdur("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getdur("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		CookieEnabled: getbool("COOKIE_ENABLED", false),
		CookieDomain:  getenv("COOKIE_DOMAIN", "localhost"),
		CookieSecure:  getbool("COOKIE_SECURE", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "*"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:        getenv("REDIS_ADDR", ""),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		RedisDB:          getint("REDIS_DB", 0),
		RateLimitEnabled: getbool("RATE_LIMIT_ENABLED", true),

		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		RabbitMQEventsQueue: getenv("RABBITMQ_EVENTS_QUEUE", "user_events"),

		MailgunDomain:   getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:   getenv("MAILGUN_API_KEY", ""),
		MailgunSender:   getenv("MAILGUN_SENDER", ""),
		MailSendEnabled: getbool("MAIL_SEND_ENABLED", false),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		HTTPLogEnabled:    getbool("HTTP_LOG_ENABLED", false),
		TrustProxyHeaders: getbool("TRUST_PROXY_HEADERS", false),
	}
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	if c.SecretKey == defaultSecretKey && c.Env != "development" {
		return errors.New("SECRET_KEY must be set outside development")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("BCRYPT_COST out of range")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

// UsesDefaultSecret reports whether SECRET_KEY was left at its placeholder.
func (c *Config) UsesDefaultSecret() bool { return c.SecretKey == defaultSecretKey }

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitCSV(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitCSV(c.ElasticsearchAddrs)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
