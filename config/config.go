package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/orderdesk/order-api/internal/email"
	"github.com/orderdesk/order-api/internal/repository/postgres"
	"github.com/orderdesk/order-api/internal/storage"
	"github.com/orderdesk/order-api/pkg/auth"
	redisbroker "github.com/orderdesk/order-api/pkg/messaging/redis"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	RetryAfterSeconds int     `mapstructure:"retry_after_seconds"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	Server    ServerConfig            `mapstructure:"server"`
	Database  postgres.DatabaseConfig `mapstructure:"database"`
	JWT       auth.Config             `mapstructure:"jwt"`
	Redis     redisbroker.Config      `mapstructure:"redis"`
	Storage   storage.SupabaseConfig  `mapstructure:"storage"`
	Email     email.Config            `mapstructure:"email"`
	RateLimit RateLimitConfig         `mapstructure:"rate_limit"`
	Log       LogConfig               `mapstructure:"log"`
}

// LoadConfig reads config.yml from the usual locations and applies
// ORDERAPI_* environment overrides on top (e.g. ORDERAPI_DATABASE_HOST).
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("ORDERAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.max_header_bytes", 1<<20)
	viper.SetDefault("server.max_body_bytes", int64(110<<20))

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("jwt.access_expiry", 24*time.Hour)
	viper.SetDefault("jwt.refresh_expiry", 7*24*time.Hour)

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 20.0)
	viper.SetDefault("rate_limit.burst", 40)
	viper.SetDefault("rate_limit.retry_after_seconds", 60)

	viper.SetDefault("log.level", "info")
}
