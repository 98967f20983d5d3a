package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("ADDRESS", ":7070")
	t.Setenv("DB_URI", "postgres://u:p@db/flava")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("COURIER_API_KEY", "pk_live")
	t.Setenv("VERIFICATION_MAIL_TEMPLATE_ID", "tpl-v")
	t.Setenv("S3_BUCKET", "images")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, ":7070", c.HTTPAddr)
	assert.Equal(t, "postgres://u:p@db/flava", c.DatabaseDSN)
	assert.Equal(t, "HS512", c.SigningAlgorithm)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "cache:6379", c.CacheAddr())
	assert.Equal(t, "pk_live", c.MailAPIKey)
	assert.Equal(t, "tpl-v", c.VerificationTemplateID)
	assert.Equal(t, "images", c.S3Bucket)
}

func TestParseEnv_EmptyClears(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	c := Config{CacheHost: "from-json"}
	require.NoError(t, parseEnv(&c))
	assert.Equal(t, "", c.CacheHost)
}

func TestParseEnv_BadNumbers(t *testing.T) {
	t.Setenv("REDIS_PORT", "abc")
	assert.Error(t, parseEnv(&Config{}))

	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "1h")
	assert.Error(t, parseEnv(&Config{}))
}
