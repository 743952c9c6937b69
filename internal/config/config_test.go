package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"APP_ADDR", "APP_ENV", "DB_DSN", "DB_QUERY_TIMEOUT", "SHUTDOWN_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES", "ADMIN_JWT_SECRET", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, defaultDSN, cfg.DSN)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.AdminJWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_QUERY_TIMEOUT", "500ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ENABLE_HSTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 500*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.EnableHSTS)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	chdir(t, t.TempDir())

	cases := map[string]string{
		"DB_QUERY_TIMEOUT": "soon",
		"RATE_LIMIT_BURST": "many",
		"RATE_LIMIT_RPS":   "fast",
		"ENABLE_HSTS":      "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_RejectsWildcardOrigins(t *testing.T) {
	chdir(t, t.TempDir())

	for _, origins := range []string{"*", "https://a.example,*", "https://*.example"} {
		t.Run(origins, func(t *testing.T) {
			t.Setenv("CORS_ALLOWED_ORIGINS", origins)
			_, err := Load()
			assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")
		})
	}
}

func TestMigrationsDir(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")
	assert.Equal(t, "db/migrations", MigrationsDir())

	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")
	assert.Equal(t, "/custom/migrations", MigrationsDir())
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nLOG_LEVEL=debug\n"), 0o644))
	chdir(t, tmp)

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	LoadEnvFiles()
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}
