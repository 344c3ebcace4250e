package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Auth     AuthConfig     `json:"auth"`
	Engine   EngineConfig   `json:"engine"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Jobs     JobsConfig     `json:"jobs"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// EngineConfig carries the accounting defaults applied at registration.
type EngineConfig struct {
	DefaultAllowance uint64 `json:"default_allowance"`
	StartingTokens   uint64 `json:"starting_tokens"`
}

// SnapshotConfig selects and parameterizes the snapshot backend. When
// S3Bucket is set the S3 backend is used, otherwise the local file backend.
type SnapshotConfig struct {
	Path     string `json:"path"`
	S3Bucket string `json:"s3_bucket"`
	S3Key    string `json:"s3_key"`
}

// JobsConfig holds the cron expressions for the background jobs.
type JobsConfig struct {
	AlertScanCron string `json:"alert_scan_cron"`
	SnapshotCron  string `json:"snapshot_cron"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Engine: EngineConfig{
			DefaultAllowance: 1000,
			StartingTokens:   100,
		},
		Snapshot: SnapshotConfig{
			Path:  "data/snapshot.json",
			S3Key: "snapshots/green-gauge.json",
		},
		Jobs: JobsConfig{
			AlertScanCron: "*/15 * * * *",
			SnapshotCron:  "*/5 * * * *",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if allowance := os.Getenv("DEFAULT_ALLOWANCE"); allowance != "" {
		if a, err := strconv.ParseUint(allowance, 10, 64); err == nil {
			config.Engine.DefaultAllowance = a
		}
	}
	if tokens := os.Getenv("STARTING_TOKENS"); tokens != "" {
		if t, err := strconv.ParseUint(tokens, 10, 64); err == nil {
			config.Engine.StartingTokens = t
		}
	}
	if path := os.Getenv("SNAPSHOT_PATH"); path != "" {
		config.Snapshot.Path = path
	}
	if bucket := os.Getenv("SNAPSHOT_S3_BUCKET"); bucket != "" {
		config.Snapshot.S3Bucket = bucket
	}
	if key := os.Getenv("SNAPSHOT_S3_KEY"); key != "" {
		config.Snapshot.S3Key = key
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
