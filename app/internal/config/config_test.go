package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, Development, cfg.Environment())
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "http://localhost:8000", cfg.CatalogBaseURL)
	require.Equal(t, 5*time.Second, cfg.CatalogTimeout)
	require.Equal(t, StoreMemory, cfg.CartStore)
	require.False(t, cfg.CartMergeDuplicates)
	require.Equal(t, "INR", cfg.Currency)
	require.Equal(t, "en-IN", cfg.LocaleTag().String())
	require.Equal(t, 3, cfg.Redis.ReadTimeout)
	require.Equal(t, 30*time.Minute, cfg.ViewIdleTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_DIAL_TIMEOUT", "9")
	t.Setenv("CART_MERGE_DUPLICATES", "true")
	t.Setenv("CATALOG_TIMEOUT", "750ms")

	cfg, err := Load("")
	require.NoError(t, err)

	require.True(t, cfg.Environment().IsProduction())
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, StoreRedis, cfg.CartStore)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	require.Equal(t, 9, cfg.Redis.DialTimeout)
	require.True(t, cfg.CartMergeDuplicates)
	require.Equal(t, 750*time.Millisecond, cfg.CatalogTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DJMART_TEST_ONLY=1\nCURRENCY=USD\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DJMART_TEST_ONLY")
		os.Unsetenv("CURRENCY")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "USD", cfg.Currency)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "CART_STORE", value: "sqlite"},
		{name: "short secret", key: "SESSION_SECRET", value: "short"},
		{name: "bad currency", key: "CURRENCY", value: "ZZZ"},
		{name: "bad locale", key: "LOCALE", value: "not a locale!"},
		{name: "bad port", key: "APP_PORT", value: "http"},
		{name: "redis without url", key: "CART_STORE", value: "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	require.Equal(t, Production, ParseEnvironment("production"))
	require.Equal(t, Staging, ParseEnvironment("staging"))
	require.Equal(t, Testing, ParseEnvironment("testing"))
	require.Equal(t, Development, ParseEnvironment("anything"))
}
