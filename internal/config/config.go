package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	Adjudication AdjudicationConfig
	Sessions     SessionsConfig
	Worker       WorkerConfig
	Beacon       BeaconConfig
	Webhook      WebhookConfig
	LogLevel     string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AdjudicationConfig controls winner selection
type AdjudicationConfig struct {
	AlgorithmVersion string
	// MinQuorum lets an expired session with at least this many participants
	// be adjudicated anyway. Zero disables it.
	MinQuorum int
}

// SessionsConfig holds session lifecycle defaults
type SessionsConfig struct {
	DefaultExpiryHours int
	MinParticipants    int
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	PollInterval time.Duration
}

// BeaconConfig holds the public randomness beacon configuration
type BeaconConfig struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
}

// WebhookConfig holds the adjudication webhook configuration
type WebhookConfig struct {
	Enabled bool
	URL     string
	Secret  string
	Timeout time.Duration
}

// TokenTTL is the lifetime of issued admin tokens
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpiresIn) * time.Second
}

// LoadConfig loads configuration from an optional .env file, an optional
// config.yaml under path, and the environment, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration. Every key must have a
// default for AutomaticEnv to pick it up during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "groupbuy")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60)
	v.SetDefault("Adjudication.AlgorithmVersion", adjudicator.DefaultAlgorithmVersion)
	v.SetDefault("Adjudication.MinQuorum", 0)
	v.SetDefault("Sessions.DefaultExpiryHours", 120)
	v.SetDefault("Sessions.MinParticipants", 2)
	v.SetDefault("Worker.PollInterval", 5*time.Second)
	v.SetDefault("Beacon.Enabled", false)
	v.SetDefault("Beacon.BaseURL", "https://api.drand.sh")
	v.SetDefault("Beacon.Timeout", 10*time.Second)
	v.SetDefault("Webhook.Enabled", false)
	v.SetDefault("Webhook.URL", "")
	v.SetDefault("Webhook.Secret", "")
	v.SetDefault("Webhook.Timeout", 10*time.Second)
	v.SetDefault("LogLevel", "info")
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	if !adjudicator.IsSupportedVersion(c.Adjudication.AlgorithmVersion) {
		return fmt.Errorf("config: unknown adjudication algorithm version %q (supported: %s)",
			c.Adjudication.AlgorithmVersion, strings.Join(adjudicator.SupportedVersions(), ", "))
	}
	if c.Adjudication.AlgorithmVersion == adjudicator.AlgorithmSessionSeed && !c.Beacon.Enabled {
		return fmt.Errorf("config: algorithm version %q needs a public seed, enable the beacon", adjudicator.AlgorithmSessionSeed)
	}
	if c.Adjudication.MinQuorum < 0 {
		return errors.New("config: adjudication min quorum must not be negative")
	}
	if c.Sessions.MinParticipants < 2 {
		return errors.New("config: sessions need at least 2 participants")
	}
	if c.Sessions.DefaultExpiryHours <= 0 {
		return errors.New("config: default session expiry must be positive")
	}
	if c.Worker.PollInterval <= 0 {
		return errors.New("config: worker poll interval must be positive")
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return errors.New("config: webhook is enabled but has no URL")
	}
	return nil
}
