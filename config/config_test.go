package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_PATH", "REDIS_ADDR", "CACHE_TTL", "RATE_LIMIT", "STATIC_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, "habits.db", cfg.DBPath)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Zero(t, cfg.RateLimit)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("RATE_LIMIT", "100")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 100, cfg.RateLimit)
	require.Contains(t, cfg.PostgresDSN(), "host=db")
	require.Contains(t, cfg.PostgresDSN(), "password=secret")
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":       "eighty",
		"DB_DRIVER":  "mysql",
		"CACHE_TTL":  "soon",
		"RATE_LIMIT": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}
