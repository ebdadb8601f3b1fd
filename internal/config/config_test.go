package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@localhost:5432/app")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "stratforge", cfg.JWTIssuer)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 15, cfg.ReadTimeoutSec)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@localhost:5432/app")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	for _, key := range []string{"DATABASE_URL", "POSTGRES_URL", "PGURL", "PGHOST"} {
		t.Setenv(key, "")
	}

	_, err := Load()
	assert.Error(t, err)
}

func TestNormalisesPostgresScheme(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgresql://app@localhost:5432/app")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app@localhost:5432/app", cfg.DatabaseURL)
}

func TestResolvesFromPGEnv(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "POSTGRES_URL", "PGURL"} {
		t.Setenv(key, "")
	}
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGUSER", "app")
	t.Setenv("PGPASSWORD", "pw")
	t.Setenv("PGDATABASE", "platform")
	t.Setenv("PGPORT", "5433")
	t.Setenv("PGSSLMODE", "disable")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:pw@db.internal:5433/platform?sslmode=disable", cfg.DatabaseURL)
}

func TestOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@localhost:5432/app")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}
