package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestDefaults(t *testing.T) {
	cf := defaultConfigs()

	assert.Equal(t, Develop, cf.App.Environment)
	assert.Len(t, cf.Query.Relays, 3)
	assert.Equal(t, 20, cf.Query.Limit)
	assert.Equal(t, 10*time.Second, cf.Query.Timeout)
	assert.Equal(t, 12*time.Second, cf.Query.SearchTimeout)
	assert.False(t, cf.Query.AllowInsecure)
	assert.Equal(t, CacheMemory, cf.Cache.Driver)
	assert.Equal(t, 24*time.Hour, cf.Followings.TTL)
	assert.Equal(t, 5432, cf.Database.CacheSQL.Port)
}

func TestInitConfigFromFile(t *testing.T) {
	path := writeFile(t, `APP:
  ENVIRONMENT: prod
QUERY:
  RELAYS:
    - wss://relay.example
  LIMIT: 7
  TIMEOUT: 3s
CACHE:
  DRIVER: postgres
`)

	require.NoError(t, InitConfig(path))

	assert.True(t, CF().App.Environment.Production())
	assert.Equal(t, []string{"wss://relay.example"}, CF().Query.Relays)
	assert.Equal(t, 7, CF().Query.Limit)
	assert.Equal(t, 3*time.Second, CF().Query.Timeout)
	assert.Equal(t, CachePostgres, CF().Cache.Driver)
	assert.Equal(t, 50, CF().Query.SearchLimit)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("QUERY_LIMIT", "42")
	t.Setenv("FOLLOWINGS_PROFILE_CONCURRENCY", "9")

	require.NoError(t, InitConfig(writeFile(t, "QUERY:\n  LIMIT: 7\n")))

	assert.Equal(t, 42, CF().Query.Limit)
	assert.Equal(t, 9, CF().Followings.ProfileConcurrency)
}

func TestInitConfigMissingFile(t *testing.T) {
	err := InitConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestInitConfigBadFile(t *testing.T) {
	err := InitConfig(writeFile(t, "QUERY: [\n"))
	assert.Error(t, err)
}

func TestInitConfigSwapsSnapshot(t *testing.T) {
	require.NoError(t, InitConfig(writeFile(t, "QUERY:\n  LIMIT: 7\n")))
	before := CF()

	require.NoError(t, InitConfig(writeFile(t, "QUERY:\n  LIMIT: 8\n")))

	assert.Equal(t, 7, before.Query.Limit)
	assert.Equal(t, 8, CF().Query.Limit)
	assert.NotSame(t, before, CF())
}

func TestReloadWhileReading(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			cf := CF()
			_ = cf.Query.Limit
			_ = len(cf.Query.Relays)
		}
	}()

	for i := 0; i < 20; i++ {
		v.Set("QUERY.LIMIT", i+1)
		require.NoError(t, bind(v))
	}
	wg.Wait()

	assert.Equal(t, 20, CF().Query.Limit)
}
