// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest):
//  1. Environment variables (THREADSTORE_* and DATABASE_URL)
//  2. Config file (~/.threadstore/config.yaml or ./config.yaml)
//  3. Defaults
//
// Sensitive values (the database password) are never logged.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrUnsupportedDriver indicates a database driver other than postgres.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidEmbeddingDimensions indicates the embedding length is out of
	// the range the vector extension supports.
	ErrInvalidEmbeddingDimensions = errors.New("invalid embedding dimensions")
)

// maxVectorDimensions is the pgvector column-type ceiling.
const maxVectorDimensions = 16000

// Config holds all application settings.
type Config struct {
	Driver string `mapstructure:"driver"`

	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDBName   string `mapstructure:"postgres_dbname"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`

	EmbeddingDimensions int `mapstructure:"embedding_dimensions"`

	WriterWorkers   int `mapstructure:"writer_workers"`
	WriterQueueSize int `mapstructure:"writer_queue_size"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment, then validates the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".threadstore"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("THREADSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults plus env carry a full setup.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// DATABASE_URL overrides the individual postgres_* settings; it is the
	// common single-variable form in cloud deployments.
	if err := cfg.parseDatabaseURL(os.Getenv("DATABASE_URL")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", "postgres")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "threadstore")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_dbname", "threadstore")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("embedding_dimensions", 768)
	v.SetDefault("writer_workers", 2)
	v.SetDefault("writer_queue_size", 256)
}

// Validate checks the configuration for values that would only fail later,
// at connection or provisioning time.
func (c *Config) Validate() error {
	if c.Driver != "postgres" {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.EmbeddingDimensions < 1 || c.EmbeddingDimensions > maxVectorDimensions {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidEmbeddingDimensions, c.EmbeddingDimensions, maxVectorDimensions)
	}
	return nil
}
