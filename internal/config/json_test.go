package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":              ":9090",
		"database_dsn":                    "postgres://example/auth",
		"secret_key":                      "my_secret_key",
		"signing_method":                  "HS512",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": "3m",
		"refresh_threshold":               "30s",
		"session_limit":                   3,
		"cookie_secure":                   true,
		"cookie_domain":                   "example.org",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://example/auth", cfg.DatabaseDSN)
	assert.Equal(t, "my_secret_key", cfg.SecretKey)
	assert.Equal(t, "HS512", cfg.SigningMethod)
	assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, 30*time.Second, cfg.RefreshThreshold)
	assert.Equal(t, 3, cfg.SessionLimit)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "example.org", cfg.CookieDomain)
}

func Test_parseJson_NoFileIsNoOp(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg

	parseJson(cfg)
	assert.Equal(t, before, *cfg)
}

func Test_parseJson_InvalidFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	os.Args = []string{"testbin", "-c", path}

	assert.Panics(t, func() {
		cfg := &Config{}
		parseJson(cfg)
	})
}
