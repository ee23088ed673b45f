package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Runtime modes
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DefaultJWTSecret is only accepted outside production
const DefaultJWTSecret = "dev_secret_change_me"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"PORT"`
		Mode           string   `yaml:"mode" env:"APP_ENV"`
		StoragePath    string   `yaml:"storage_path" env:"STORAGE_PATH"`
		UploadMaxBytes int64    `yaml:"upload_max_bytes" env:"UPLOAD_MAX_BYTES"`
		SeedDemoData   bool     `yaml:"seed_demo_data" env:"SEED_DEMO_DATA"`
		CORSOrigins    []string `yaml:"cors_origins" env:"CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		URL             string `yaml:"url" env:"DATABASE_URL"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret" env:"JWT_SECRET"`
		Expiration string `yaml:"expiration" env:"JWT_EXPIRATION"`
		Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Redis struct {
		URL               string        `yaml:"url" env:"REDIS_URL"`
		RateLimitRequests int           `yaml:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS"`
		RateLimitWindow   time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from .env, a YAML file and environment variables, in that order
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.Server.Mode = strings.ToLower(strings.TrimSpace(config.Server.Mode))
	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = ModeDevelopment
	config.Server.StoragePath = "uploads"
	config.Server.UploadMaxBytes = 5 * 1024 * 1024
	config.Server.SeedDemoData = true
	config.Server.CORSOrigins = []string{"*"}

	config.Database.Driver = DriverMemory
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.Secret = DefaultJWTSecret
	config.JWT.Expiration = "168h"
	config.JWT.Issuer = "helphub.app"

	config.Redis.RateLimitRequests = 20
	config.Redis.RateLimitWindow = time.Minute

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Server.Mode {
	case ModeDevelopment, ModeProduction, ModeTest:
	default:
		return fmt.Errorf("unknown mode %q", config.Server.Mode)
	}

	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Server.Mode == ModeProduction && config.JWT.Secret == DefaultJWTSecret {
		return fmt.Errorf("JWT secret must be set in production")
	}

	if _, err := time.ParseDuration(config.JWT.Expiration); err != nil {
		return fmt.Errorf("invalid JWT expiration format: %w", err)
	}

	switch config.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if config.Database.URL == "" {
			return fmt.Errorf("database url is required for the postgres driver")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	if config.Server.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == ModeDevelopment
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == ModeProduction
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
