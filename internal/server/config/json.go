package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/flava/internal/flagx"
	"github.com/dmitrijs2005/flava/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	GRPCAddr                    string         `json:"grpc_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ActionSecretKey             string         `json:"action_secret_key"`
	CacheHost                   string         `json:"cache_host"`
	CachePort                   int            `json:"cache_port"`
	CachePassword               string         `json:"cache_password"`
	MailAPIKey                  string         `json:"mail_api_key"`
	MailEndpoint                string         `json:"mail_endpoint"`
	VerificationTemplateID      string         `json:"verification_template_id"`
	PasswordResetTemplateID     string         `json:"password_reset_template_id"`
	VerificationLink            string         `json:"verification_link"`
	PasswordResetLink           string         `json:"password_reset_link"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays the values present in the config file onto config.
// Keys missing from the file leave the current value alone.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.ActionSecretKey, c.ActionSecretKey)
	setString(&config.CacheHost, c.CacheHost)
	if c.CachePort != 0 {
		config.CachePort = c.CachePort
	}
	setString(&config.CachePassword, c.CachePassword)
	setString(&config.MailAPIKey, c.MailAPIKey)
	setString(&config.MailEndpoint, c.MailEndpoint)
	setString(&config.VerificationTemplateID, c.VerificationTemplateID)
	setString(&config.PasswordResetTemplateID, c.PasswordResetTemplateID)
	setString(&config.VerificationLink, c.VerificationLink)
	setString(&config.PasswordResetLink, c.PasswordResetLink)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
