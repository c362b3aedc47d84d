package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBSlowQuery    time.Duration `mapstructure:"DB_SLOW_QUERY_THRESHOLD"`
	AutoMigrate    bool          `mapstructure:"DB_AUTO_MIGRATE"`

	RedisURL      string        `mapstructure:"REDIS_URL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	FeedCacheTTL  time.Duration `mapstructure:"FEED_CACHE_TTL"`

	NatsURL string `mapstructure:"NATS_URL"`

	SentryDSN string `mapstructure:"SENTRY_DSN"`

	EngagementMaxRetries int    `mapstructure:"ENGAGEMENT_MAX_RETRIES"`
	RecountSchedule      string `mapstructure:"RECOUNT_SCHEDULE"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	SwaggerHost string `mapstructure:"SWAGGER_HOST"`
	SeedDemo    bool   `mapstructure:"SEED_DEMO"`
}

var defaults = map[string]interface{}{
	"APP_ENV":                 "development",
	"PORT":                    "8888",
	"LOG_LEVEL":               "",
	"DB_DRIVER":               "postgres",
	"DATABASE_URL":            "",
	"DB_HOST":                 "localhost",
	"DB_PORT":                 "5432",
	"DB_USER":                 "postgres",
	"DB_PASSWORD":             "",
	"DB_NAME":                 "devconnect",
	"SQLITE_PATH":             "devconnect.db",
	"DB_MAX_OPEN_CONNS":       25,
	"DB_SLOW_QUERY_THRESHOLD": "200ms",
	"DB_AUTO_MIGRATE":         true,
	"REDIS_URL":               "",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"FEED_CACHE_TTL":          "5m",
	"NATS_URL":                "",
	"SENTRY_DSN":              "",
	"ENGAGEMENT_MAX_RETRIES":  3,
	"RECOUNT_SCHEDULE":        "@daily",
	"RATE_LIMIT_RPS":          1.0,
	"RATE_LIMIT_BURST":        100,
	"CORS_ORIGINS":            "http://localhost:3000",
	"SWAGGER_HOST":            "",
	"SEED_DEMO":               false,
}

// Load reads .env (outside production) and the process environment into a Config.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.EngagementMaxRetries < 1 {
		return fmt.Errorf("ENGAGEMENT_MAX_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// PostgresDSN builds the connection string, preferring DATABASE_URL when it is set.
func (c *Config) PostgresDSN() string {
	if dsn := strings.TrimSpace(c.DatabaseURL); dsn != "" {
		if c.IsProduction() && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
