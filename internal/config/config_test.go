package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Crawler.PageStart)
	assert.Equal(t, 100, cfg.Crawler.PageEnd)
	assert.Equal(t, 10*time.Second, cfg.Crawler.FetchTimeout)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := `
crawler:
  page_end: 5
  fetch_timeout: 3s
checkpoint:
  dir: /tmp/checkpoints
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	t.Setenv("CRAWLER_CONFIG", path)
	t.Setenv("CRAWLER_PAGE_END", "7")
	t.Setenv("REDIS_PUBLISH", "true")
	t.Setenv("ELASTICSEARCH_URL", "http://es1:9200,http://es2:9200")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Crawler.PageEnd)
	assert.Equal(t, 3*time.Second, cfg.Crawler.FetchTimeout)
	assert.Equal(t, "/tmp/checkpoints", cfg.Checkpoint.Dir)
	assert.True(t, cfg.Redis.Publish)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "https://au.gradconnection.com", cfg.Crawler.Domain)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("CRAWLER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Crawler.BaseURL)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawler: [oops"), 0o644))
	t.Setenv("CRAWLER_CONFIG", path)

	_, err := Load()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Crawler.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.Crawler.BaseURL = "/graduate-jobs/" }},
		{"page start zero", func(c *Config) { c.Crawler.PageStart = 0 }},
		{"end before start", func(c *Config) { c.Crawler.PageStart = 5; c.Crawler.PageEnd = 4 }},
		{"zero timeout", func(c *Config) { c.Crawler.FetchTimeout = 0 }},
		{"no checkpoint dir", func(c *Config) { c.Checkpoint.Dir = "" }},
		{"publish without redis", func(c *Config) { c.Redis.Publish = true; c.Redis.Addr = "" }},
		{"telegram without chat", func(c *Config) { c.Telegram.BotToken = "123:abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DELAY", "1500")
	assert.Equal(t, 1500*time.Millisecond, getEnvDuration("X_DELAY", 0))

	t.Setenv("X_DELAY", "2s")
	assert.Equal(t, 2*time.Second, getEnvDuration("X_DELAY", 0))

	t.Setenv("X_DELAY", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("X_DELAY", time.Minute))
}
