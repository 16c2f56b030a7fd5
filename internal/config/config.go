package config

import (
	"errors"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port   string `envconfig:"PORT" default:"3000"`
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"go_leave"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr          string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	KafkaBroker        string `envconfig:"KAFKA_BROKER" default:"localhost:9092"`
	KafkaConsumerGroup string `envconfig:"KAFKA_CONSUMER_GROUP" default:"go-leave-notifications"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"20"`

	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"3s"`
	WorkerConcurrency  int           `envconfig:"WORKER_CONCURRENCY" default:"5"`

	SeedDefaultGrant     bool `envconfig:"LEAVE_SEED_DEFAULT_GRANT" default:"true"`
	NotificationMaxItems int  `envconfig:"NOTIFICATION_MAX_ITEMS" default:"100"`

	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`

	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the process environment. Callers load .env first.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, errors.New("rate limit must be positive")
	}
	if cfg.NotificationMaxItems <= 0 {
		return nil, errors.New("notification max items must be positive")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) Postgres() connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     c.DBHost,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		Port:     c.DBPort,
		SSLMode:  c.DBSSLMode,
	}
}
