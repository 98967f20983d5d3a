// Package config handles configuration for the server, layered as defaults,
// then an optional JSON file, then environment variables, then flags.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds runtime settings for the flava server.
//
// An empty DatabaseDSN selects the in-memory store, an empty CacheHost
// disables the cache, an empty MailAPIKey logs mail instead of sending it
// and an empty S3Bucket disables recipe images.
type Config struct {
	HTTPAddr string
	GRPCAddr string

	DatabaseDSN string

	SecretKey                   string
	SigningAlgorithm            string
	AccessTokenValidityDuration time.Duration
	ActionSecretKey             string

	CacheHost     string
	CachePort     int
	CachePassword string

	MailAPIKey              string
	MailEndpoint            string
	VerificationTemplateID  string
	PasswordResetTemplateID string
	VerificationLink        string
	PasswordResetLink       string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	LogLevel string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.SecretKey = "secretKey"
	c.SigningAlgorithm = "HS256"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.ActionSecretKey = "actionSecretKey"
	c.CachePort = 6379
	c.MailEndpoint = "https://api.courier.com"
	c.VerificationLink = "http://localhost:8080/users/verify-email"
	c.PasswordResetLink = "http://localhost:8080/users/reset-password"
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

// CacheAddr returns host:port of the cache, or "" when the cache is disabled.
func (c *Config) CacheAddr() string {
	if c.CacheHost == "" {
		return ""
	}
	return net.JoinHostPort(c.CacheHost, strconv.Itoa(c.CachePort))
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("session signing secret is empty")
	}
	if c.ActionSecretKey == "" {
		return fmt.Errorf("action token secret is empty")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the JSON file named by -c/-config
// or CONFIG, the environment and finally the command-line flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
