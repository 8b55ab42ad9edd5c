package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REGISTRATION_FEE", "")
	t.Setenv("S3_BUCKET", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, int64(1500), cfg.RegistrationFee)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.RequireHairdresserApproval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REGISTRATION_FEE", "2000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("REQUIRE_HAIRDRESSER_APPROVAL", "true")
	t.Setenv("S3_BUCKET", "portfolio")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, int64(2000), cfg.RegistrationFee)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.True(t, cfg.RequireHairdresserApproval)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_CORSOriginList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com, ,https://admin.example.com ")

	cfg := Load()

	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_AdminEmails(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "ops@example.com, owner@example.com")

	cfg := Load()

	assert.Equal(t, []string{"ops@example.com", "owner@example.com"}, cfg.AdminEmails)
}
