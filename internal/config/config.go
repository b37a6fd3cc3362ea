// Package config loads the portal configuration from a yaml file with
// environment variable overrides for deployment credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "config.yaml"

// JWTConfig holds signing material for one token audience.
type JWTConfig struct {
	Secret string        `yaml:"secret"` // HS256 signing secret.
	Expiry time.Duration `yaml:"expiry"` // Session lifetime.
}

// StorageConfig holds S3-compatible object storage settings.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`        // Custom endpoint, empty for AWS.
	Region        string `yaml:"region"`          // Region, "auto" for R2-compatible stores.
	Bucket        string `yaml:"bucket"`          // Bucket name.
	AccessKeyID   string `yaml:"access-key-id"`   // Static credential ID.
	SecretKey     string `yaml:"secret-key"`      // Static credential secret.
	PublicBaseURL string `yaml:"public-base-url"` // Base URL for public object links.
}

// Config is the full portal configuration.
type Config struct {
	ListenAddr string `yaml:"listen-addr"` // HTTP listen address.

	DatabaseDSN string `yaml:"database-dsn"` // Postgres or SQLite DSN.

	ClientJWT JWTConfig `yaml:"client-jwt"` // Client session tokens.
	AdminJWT  JWTConfig `yaml:"admin-jwt"`  // Admin session tokens.

	LoginLinkTTL time.Duration `yaml:"login-link-ttl"` // One-time login link lifetime.
	RedisAddr    string        `yaml:"redis-addr"`     // Redis address for link tokens, empty for in-memory.

	Storage StorageConfig `yaml:"storage"` // Object storage settings.

	LogFile string `yaml:"log-file"` // Rotated log file path, empty for stdout only.

	SeedAdminUsername string `yaml:"seed-admin-username"` // Initial admin login, used once.
	SeedAdminPassword string `yaml:"seed-admin-password"` // Initial admin password, used once.
}

// ResolveConfigPath returns the effective config path for a possibly empty input.
func ResolveConfigPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultConfigPath
	}
	return filepath.Clean(trimmed)
}

// Load reads the config file and applies env overrides and defaults.
// A missing file is not an error; env-only deployments are supported.
func Load(path string) (Config, error) {
	cfg := Config{
		ListenAddr:   ":8318",
		LoginLinkTTL: 15 * time.Minute,
		ClientJWT:    JWTConfig{Expiry: 720 * time.Hour},
		AdminJWT:     JWTConfig{Expiry: 24 * time.Hour},
		Storage:      StorageConfig{Region: "auto"},
	}

	data, errRead := os.ReadFile(ResolveConfigPath(path))
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	case os.IsNotExist(errRead):
		// env-only
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnvOverrides(&cfg)

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return Config{}, fmt.Errorf("config: database dsn is required")
	}
	if strings.TrimSpace(cfg.ClientJWT.Secret) == "" || strings.TrimSpace(cfg.AdminJWT.Secret) == "" {
		return Config{}, fmt.Errorf("config: jwt secrets are required")
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	setIfEnv(&cfg.ListenAddr, "PETGAS_LISTEN_ADDR")
	setIfEnv(&cfg.DatabaseDSN, "PETGAS_DATABASE_DSN")
	setIfEnv(&cfg.ClientJWT.Secret, "PETGAS_CLIENT_JWT_SECRET")
	setIfEnv(&cfg.AdminJWT.Secret, "PETGAS_ADMIN_JWT_SECRET")
	setIfEnv(&cfg.RedisAddr, "PETGAS_REDIS_ADDR")
	setIfEnv(&cfg.Storage.Endpoint, "PETGAS_STORAGE_ENDPOINT")
	setIfEnv(&cfg.Storage.Region, "PETGAS_STORAGE_REGION")
	setIfEnv(&cfg.Storage.Bucket, "PETGAS_STORAGE_BUCKET")
	setIfEnv(&cfg.Storage.AccessKeyID, "PETGAS_STORAGE_ACCESS_KEY_ID")
	setIfEnv(&cfg.Storage.SecretKey, "PETGAS_STORAGE_SECRET_KEY")
	setIfEnv(&cfg.Storage.PublicBaseURL, "PETGAS_STORAGE_PUBLIC_BASE_URL")
	setIfEnv(&cfg.LogFile, "PETGAS_LOG_FILE")
	setIfEnv(&cfg.SeedAdminUsername, "PETGAS_SEED_ADMIN_USERNAME")
	setIfEnv(&cfg.SeedAdminPassword, "PETGAS_SEED_ADMIN_PASSWORD")
}

// setIfEnv overwrites dst when the env var is set and non-empty.
func setIfEnv(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			*dst = trimmed
		}
	}
}
