package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// parseEnv overlays set environment variables onto config. A variable that
// is set but empty clears the field, which is how optional collaborators
// are switched off.
func parseEnv(config *Config) error {
	strs := map[string]*string{
		"ADDRESS":                         &config.HTTPAddr,
		"GRPC_ADDRESS":                    &config.GRPCAddr,
		"DB_URI":                          &config.DatabaseDSN,
		"JWT_SECRET":                      &config.SecretKey,
		"JWT_ALGORITHM":                   &config.SigningAlgorithm,
		"SECRET_KEY":                      &config.ActionSecretKey,
		"REDIS_HOST":                      &config.CacheHost,
		"REDIS_PASSWORD":                  &config.CachePassword,
		"COURIER_API_KEY":                 &config.MailAPIKey,
		"COURIER_ENDPOINT":                &config.MailEndpoint,
		"VERIFICATION_MAIL_TEMPLATE_ID":   &config.VerificationTemplateID,
		"PASSWORD_RESET_MAIL_TEMPLATE_ID": &config.PasswordResetTemplateID,
		"VERIFICATION_LINK":               &config.VerificationLink,
		"PASSWORD_RESET_LINK":             &config.PasswordResetLink,
		"S3_ROOT_USER":                    &config.S3RootUser,
		"S3_ROOT_PASSWORD":                &config.S3RootPassword,
		"S3_BUCKET":                       &config.S3Bucket,
		"S3_REGION":                       &config.S3Region,
		"S3_BASE_ENDPOINT":                &config.S3BaseEndpoint,
		"LOG_LEVEL":                       &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("REDIS_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_PORT: %w", err)
		}
		config.CachePort = port
	}

	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok && v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}
	return nil
}
