package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MAX_UPLOAD_SIZE", "")

	cfg := Load()
	require.NotNil(t, cfg)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.ExposeErrors)
	assert.Empty(t, cfg.S3Bucket)
}

func TestLoadS3(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_REGION", "eu-central-1")
	t.Setenv("S3_BUCKET", "jobtracker")

	cfg := Load()
	assert.Equal(t, "jobtracker", cfg.S3Bucket)
	assert.Equal(t, "attachments", cfg.S3Prefix)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "2048")
	t.Setenv("TEST_BAD_INT", "-5")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_BAD_DURATION", "soon")
	t.Setenv("TEST_BOOL", "false")

	assert.Equal(t, int64(2048), envInt64("TEST_INT", 1))
	assert.Equal(t, int64(1), envInt64("TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, envDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, envDuration("TEST_BAD_DURATION", time.Second))
	assert.False(t, envBool("TEST_BOOL", true))
	assert.True(t, envBool("TEST_MISSING_BOOL", true))
	assert.Equal(t, "fallback", envString("TEST_MISSING_STRING", "fallback"))
}

func TestEnvPrefixes(t *testing.T) {
	t.Setenv("TEST_PROXIES", " 10.0.0.0/8, 192.0.2.7 ,nonsense,2001:db8::/32")

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.7/32"),
		netip.MustParsePrefix("2001:db8::/32"),
	}, envPrefixes("TEST_PROXIES"))
	assert.Empty(t, envPrefixes("TEST_MISSING_PROXIES"))
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{AppEnv: "production", JWTSecret: "secret", DBConnection: "postgres://u:p@db/app", S3SecretKey: "key", Port: "8090"}

	clean := cfg.Sanitized()
	assert.Empty(t, clean.JWTSecret)
	assert.Empty(t, clean.DBConnection)
	assert.Empty(t, clean.S3SecretKey)
	assert.Equal(t, "8090", clean.Port)
	assert.Equal(t, "secret", cfg.JWTSecret)
}
