package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources.
const (
	CatalogBuiltin  = "builtin"
	CatalogPostgres = "postgres"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv    string
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	UI        UIConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// CatalogConfig selects where place reference data comes from.
// "postgres" merges database rows over the built-in tables.
type CatalogConfig struct {
	Source string `mapstructure:"CATALOG_SOURCE"`
}

// CacheConfig selects the distance cache backend.
type CacheConfig struct {
	Backend string        `mapstructure:"CACHE_BACKEND"`
	TTL     time.Duration `mapstructure:"CACHE_TTL"`
	Size    int           `mapstructure:"CACHE_SIZE"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`

	// AutoMigrate creates the catalog tables at startup if they are missing.
	AutoMigrate bool `mapstructure:"POSTGRES_AUTO_MIGRATE"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// RateLimitConfig holds per-client API rate limits. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	Burst int     `mapstructure:"RATE_LIMIT_BURST"`

	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP. Enable only
	// behind a reverse proxy that sets those headers itself.
	TrustProxy bool `mapstructure:"RATE_LIMIT_TRUST_PROXY"`
}

// TracingConfig holds OpenTelemetry settings. An empty endpoint disables tracing.
type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
}

// UIConfig holds presentation settings for the HTML page.
type UIConfig struct {
	// ResultDelay is an artificial pause before the page renders results.
	ResultDelay time.Duration `mapstructure:"UI_RESULT_DELAY"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = v.ReadInConfig()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "5s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	v.SetDefault("CATALOG_SOURCE", CatalogBuiltin)

	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("CACHE_SIZE", 1024)

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "tripwise")
	v.SetDefault("POSTGRES_PASSWORD", "tripwise_secret")
	v.SetDefault("POSTGRES_DB", "tripwise_db")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_MAX_CONNS", 4)
	v.SetDefault("POSTGRES_MIN_CONNS", 0)
	v.SetDefault("POSTGRES_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)

	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_TRUST_PROXY", false)

	v.SetDefault("OTLP_ENDPOINT", "")

	v.SetDefault("UI_RESULT_DELAY", "0s")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{AppEnv: v.GetString("APP_ENV")}

	// ── Server ──────────────────────────────────────────
	cfg.Server = ServerConfig{
		Host:         v.GetString("SERVER_HOST"),
		Port:         v.GetInt("SERVER_PORT"),
		ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	// ── Catalog & cache ─────────────────────────────────
	cfg.Catalog = CatalogConfig{Source: v.GetString("CATALOG_SOURCE")}
	cfg.Cache = CacheConfig{
		Backend: v.GetString("CACHE_BACKEND"),
		TTL:     v.GetDuration("CACHE_TTL"),
		Size:    v.GetInt("CACHE_SIZE"),
	}

	// ── Postgres ────────────────────────────────────────
	cfg.Postgres = PostgresConfig{
		Host:     v.GetString("POSTGRES_HOST"),
		Port:     v.GetInt("POSTGRES_PORT"),
		User:     v.GetString("POSTGRES_USER"),
		Password: v.GetString("POSTGRES_PASSWORD"),
		DBName:   v.GetString("POSTGRES_DB"),
		SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		MaxConns: v.GetInt32("POSTGRES_MAX_CONNS"),
		MinConns: v.GetInt32("POSTGRES_MIN_CONNS"),

		AutoMigrate: v.GetBool("POSTGRES_AUTO_MIGRATE"),
	}

	// ── Redis ───────────────────────────────────────────
	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		PoolSize: v.GetInt("REDIS_POOL_SIZE"),
	}

	// ── Middleware, tracing, UI ─────────────────────────
	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		Burst: v.GetInt("RATE_LIMIT_BURST"),

		TrustProxy: v.GetBool("RATE_LIMIT_TRUST_PROXY"),
	}
	cfg.Tracing = TracingConfig{OTLPEndpoint: v.GetString("OTLP_ENDPOINT")}
	cfg.UI = UIConfig{ResultDelay: v.GetDuration("UI_RESULT_DELAY")}

	return cfg
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port))
	}
	switch c.Catalog.Source {
	case CatalogBuiltin, CatalogPostgres:
	default:
		errs = append(errs, fmt.Errorf("CATALOG_SOURCE %q: want %q or %q", c.Catalog.Source, CatalogBuiltin, CatalogPostgres))
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q: want %q, %q or %q", c.Cache.Backend, CacheNone, CacheMemory, CacheRedis))
	}
	if c.Cache.Backend == CacheMemory && c.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_SIZE must be positive, got %d", c.Cache.Size))
	}
	if c.UI.ResultDelay < 0 {
		errs = append(errs, errors.New("UI_RESULT_DELAY must not be negative"))
	}
	return errors.Join(errs...)
}
