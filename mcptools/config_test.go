package mcptools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearCASTREnv clears all CASTR_* env vars to isolate tests from the ambient environment.
func clearCASTREnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CASTR_CACHE_ENABLED", "CASTR_CACHE_MAX_SIZE",
		"CASTR_CACHE_FILE_TTL", "CASTR_CACHE_URL_TTL",
		"CASTR_CACHE_CONTENT_TTL", "CASTR_CACHE_SWEEP_INTERVAL",
		"CASTR_GRAPH_LIMIT", "CASTR_MAX_LIMIT",
		"CASTR_MAX_INLINE_SIZE", "CASTR_MAX_FETCH_SIZE",
		"CASTR_ALLOW_PRIVATE_IPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearCASTREnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 100, c.GraphLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, int64(20*1024*1024), c.MaxFetchSize)
	assert.False(t, c.AllowPrivateIPs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearCASTREnv(t)
	t.Setenv("CASTR_CACHE_ENABLED", "false")
	t.Setenv("CASTR_CACHE_MAX_SIZE", "50")
	t.Setenv("CASTR_CACHE_FILE_TTL", "30m")
	t.Setenv("CASTR_CACHE_URL_TTL", "2m")
	t.Setenv("CASTR_CACHE_CONTENT_TTL", "10m")
	t.Setenv("CASTR_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("CASTR_GRAPH_LIMIT", "200")
	t.Setenv("CASTR_MAX_LIMIT", "500")
	t.Setenv("CASTR_MAX_INLINE_SIZE", "5242880")
	t.Setenv("CASTR_MAX_FETCH_SIZE", "1048576")
	t.Setenv("CASTR_ALLOW_PRIVATE_IPS", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 2*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 10*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 30*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 200, c.GraphLimit)
	assert.Equal(t, 500, c.MaxLimit)
	assert.Equal(t, int64(5242880), c.MaxInlineSize)
	assert.Equal(t, int64(1048576), c.MaxFetchSize)
	assert.True(t, c.AllowPrivateIPs)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearCASTREnv(t)
	t.Setenv("CASTR_CACHE_ENABLED", "maybe")
	t.Setenv("CASTR_CACHE_MAX_SIZE", "-5")
	t.Setenv("CASTR_CACHE_FILE_TTL", "soon")
	t.Setenv("CASTR_GRAPH_LIMIT", "0")
	t.Setenv("CASTR_MAX_INLINE_SIZE", "lots")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 100, c.GraphLimit)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
}
