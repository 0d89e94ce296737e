package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE", "CACHE_TTL", "DEFAULT_NUMBER_OF_POSTING_LINES", "REDIS_ADDR", "NATS_URL", "MINIO_ENDPOINT", "JWT_SECRET", "DB_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.Equal(t, 25, cfg.App.DefaultNumberOfPostingLines)
	assert.Equal(t, 5*time.Minute, cfg.App.CacheTTL)
	assert.Equal(t, "osintranet", cfg.Database.DBName)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.NATS.URL)
	assert.Empty(t, cfg.Minio.Endpoint)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "accounting", cfg.Auth.Role)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DEFAULT_NUMBER_OF_POSTING_LINES", "50")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, 30*time.Second, cfg.App.CacheTTL)
	assert.Equal(t, 50, cfg.App.DefaultNumberOfPostingLines)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Minio.UseSSL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"STORAGE":                         "sqlite",
		"CACHE_TTL":                       "soon",
		"DEFAULT_NUMBER_OF_POSTING_LINES": "many",
		"MINIO_USE_SSL":                   "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "osintranet", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=osintranet sslmode=disable", db.ConnectionString())
}
