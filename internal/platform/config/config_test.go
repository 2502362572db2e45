package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tour_booking?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Server.StorageDriver)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "change-me")

	hook := test.NewGlobal()
	defer hook.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["key"] == "BCRYPT_COST" {
			warned = true
		}
	}
	assert.True(t, warned, "invalid BCRYPT_COST should be logged through logrus")
	assert.Equal(t, AdminConfig{Username: "root", Email: "root@example.com", Password: "change-me"}, cfg.Admin)

	assert.Equal(t, StorageMemory, cfg.Server.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{StorageDriver: StoragePostgres},
			Database: DatabaseConfig{URL: "postgres://localhost/db"},
			JWT:      JWTConfig{Secret: "secret", AccessTokenExpiry: time.Hour},
		}
	}

	require.NoError(t, valid().Validate())

	missingURL := valid()
	missingURL.Database.URL = ""
	assert.ErrorContains(t, missingURL.Validate(), "DATABASE_URL")

	memoryWithoutURL := valid()
	memoryWithoutURL.Server.StorageDriver = StorageMemory
	memoryWithoutURL.Database.URL = ""
	assert.NoError(t, memoryWithoutURL.Validate())

	unknownDriver := valid()
	unknownDriver.Server.StorageDriver = "sqlite"
	assert.ErrorContains(t, unknownDriver.Validate(), "STORAGE_DRIVER")

	missingSecret := valid()
	missingSecret.JWT.Secret = ""
	assert.ErrorContains(t, missingSecret.Validate(), "JWT_SECRET")

	partialAdmin := valid()
	partialAdmin.Admin = AdminConfig{Username: "root"}
	assert.ErrorContains(t, partialAdmin.Validate(), "ADMIN_PASSWORD")
}
