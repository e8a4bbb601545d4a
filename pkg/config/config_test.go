package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, c.Server.Port)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, "none", c.Tape.Backend)
	assert.Equal(t, 10*time.Second, c.Cache.TTL.Quote)
	assert.Equal(t, "https://finnhub.io/api/v1", c.Finnhub.RestURL)
	assert.False(t, c.TapeEnabled())
	assert.False(t, c.ClickHouseEnabled())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
cache:
  backend: layered
  ttl:
    quote: 3s
tape:
  backend: clickhouse
clickhouse:
  host: ch.local
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "layered", c.Cache.Backend)
	assert.Equal(t, 3*time.Second, c.Cache.TTL.Quote)
	assert.Equal(t, 2*time.Minute, c.Cache.TTL.News)
	assert.True(t, c.TapeEnabled())
	assert.True(t, c.ClickHouseEnabled())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [port"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-key")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis.local:6380")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("TAPE_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv("")
	require.NoError(t, err)

	assert.Equal(t, "fh-key", c.Finnhub.APIKey)
	assert.Equal(t, "av-key", c.AlphaVantage.APIKey)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "redis.local", c.Cache.Redis.Host)
	assert.Equal(t, 6380, c.Cache.Redis.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.TapeEnabled())
	assert.False(t, c.ClickHouseEnabled())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c, err := Load("")
		require.NoError(t, err)
		c.Finnhub.APIKey = "k"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.Finnhub.APIKey = "" }, wantErr: "finnhub.api_key"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "bad cache", mutate: func(c *Config) { c.Cache.Backend = "disk" }, wantErr: "cache.backend"},
		{name: "bad tape", mutate: func(c *Config) { c.Tape.Backend = "s3" }, wantErr: "tape.backend"},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Tape.Backend = "kafka" }, wantErr: "kafka.brokers"},
		{
			name: "kafka consumer without clickhouse",
			mutate: func(c *Config) {
				c.Tape.Backend = "kafka"
				c.Kafka.Brokers = []string{"k:9092"}
				c.Kafka.Consumer.Enabled = true
			},
			wantErr: "clickhouse.host",
		},
		{name: "clickhouse without host", mutate: func(c *Config) { c.Tape.Backend = "clickhouse" }, wantErr: "clickhouse.host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
