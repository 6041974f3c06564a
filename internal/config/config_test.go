package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "./clicktoeat.db", cfg.DBPath)
	assert.False(t, cfg.CookieSecure)
	assert.Len(t, cfg.SessionKey, 32)
}

func TestLoadConfigFromEnv(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("SESSION_KEY", base64.StdEncoding.EncodeToString(key))
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, key, cfg.SessionKey)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SESSION_KEY", "too-short")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	// A bad key falls back to a random one rather than failing startup.
	assert.Len(t, cfg.SessionKey, 32)
}
