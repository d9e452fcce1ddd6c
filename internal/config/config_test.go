package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "memory", cfg.Ideas.StoreType)
	assert.False(t, cfg.Ideas.CacheEnabled)
	assert.Equal(t, 10000, cfg.API.MaxComputeBars)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("API_READ_TIMEOUT", "2s")
	t.Setenv("IDEAS_CACHE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, 2*time.Second, cfg.API.ReadTimeout)
	assert.True(t, cfg.Ideas.CacheEnabled)
}

func TestLoad_InvalidStoreType(t *testing.T) {
	t.Setenv("IDEAS_STORE_TYPE", "clickhouse")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("API_PORT", "not-a-number")
	t.Setenv("API_WRITE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 30*time.Second, cfg.API.WriteTimeout)
}
