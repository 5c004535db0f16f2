package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/vehicles-auth-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	for _, name := range []string{"APP_NAME", "API_URL", "ENV", "LOG_LEVEL", "TOKEN_STORE", "REDIS_ADDR", "REDIS_DB", "REDIS_KEY_PREFIX", "TOKEN_STORE_PASSPHRASE", "REFRESH_TIMEOUT", "REQUEST_TIMEOUT"} {
		t.Setenv(name, "")
	}
	c := config.New()

	require.Equal(t, "vehiclectl", c.GetAppName())
	require.Equal(t, "http://localhost:8000/api", c.GetAPIURL())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "warn", c.GetLogLevel())
	require.Equal(t, config.StoreTypeFile, c.GetStoreType())
	require.Equal(t, "localhost:6379", c.GetRedisAddr())
	require.Zero(t, c.GetRedisDB())
	require.Equal(t, "vehicles", c.GetRedisKeyPrefix())
	require.Empty(t, c.GetStorePassphrase())
	require.Equal(t, 30*time.Second, c.GetRefreshTimeout())
	require.Equal(t, 60*time.Second, c.GetRequestTimeout())
	require.Equal(t, "tokens.json", filepath.Base(c.GetTokenFile()))
}

func TestConfig_FromEnvironment(t *testing.T) {
	t.Setenv("API_URL", "https://cars.example.com/api/")
	t.Setenv("TOKEN_STORE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REFRESH_TIMEOUT", "5s")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	c := config.New()

	require.Equal(t, "https://cars.example.com/api", c.GetAPIURL())
	require.Equal(t, config.StoreTypeRedis, c.GetStoreType())
	require.Equal(t, 3, c.GetRedisDB())
	require.Equal(t, 5*time.Second, c.GetRefreshTimeout())
	require.Equal(t, 60*time.Second, c.GetRequestTimeout())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("APP_NAME=from-dotenv\nAPI_URL=http://dotenv/api\n"), 0o600))

	t.Setenv("API_URL", "http://explicit/api")
	t.Setenv("APP_NAME", "")
	require.NoError(t, os.Unsetenv("APP_NAME"))

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), file))
	t.Cleanup(func() { _ = os.Unsetenv("APP_NAME") })

	c := config.New()
	require.Equal(t, "from-dotenv", c.GetAppName())
	require.Equal(t, "http://explicit/api", c.GetAPIURL(), "existing variables win")

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))
}
