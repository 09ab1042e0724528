package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", "", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.BasicAuth.Enabled())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
addr: ":9000"
postgres_dsn: postgres://pg
clickhouse_dsn: clickhouse://ch
provider_timeout: 2s
default_metrics: [bio_clicks, news_clicks]
leaderboard_size: 5
timezone: UTC
basic_auth:
  user: admin
  password: secret
`)

	cfg, err := load(path, "", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "postgres://pg", cfg.PostgresDSN)
	assert.Equal(t, 2*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"bio_clicks", "news_clicks"}, cfg.DefaultMetrics)
	assert.Equal(t, 5, cfg.LeaderboardSize)
	assert.Equal(t, BasicAuth{User: "admin", Password: "secret"}, cfg.BasicAuth)
	assert.False(t, cfg.DevLog, "unset keys keep defaults")
	require.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	yamlPath := writeFile(t, "config.yaml", "addr: \":9000\"\ntimezone: UTC\n")
	envPath := writeFile(t, ".env", "DASHBOARD_ADDR=:7000\nDASHBOARD_LEADERBOARD_SIZE=3\n")

	cfg, err := load(yamlPath, envPath, envMap(map[string]string{
		"DASHBOARD_ADDR":             ":6000",
		"DASHBOARD_USE_MEMORY":       "true",
		"DASHBOARD_PROVIDER_TIMEOUT": "7",
		"DASHBOARD_DEFAULT_METRICS":  "bio_clicks, update_clicks",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Addr, "process env wins over .env and yaml")
	assert.Equal(t, 3, cfg.LeaderboardSize, ".env fills keys the process env lacks")
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.True(t, cfg.UseMemory)
	assert.Equal(t, 7*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"bio_clicks", "update_clicks"}, cfg.DefaultMetrics)
}

func TestLoad_Errors(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"), "", envMap(nil))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "addr: [\n")
	_, err = load(bad, "", envMap(nil))
	assert.Error(t, err)

	_, err = load("", "", envMap(map[string]string{"DASHBOARD_USE_MEMORY": "maybe"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = load("", "", envMap(map[string]string{"DASHBOARD_LEADERBOARD_SIZE": "ten"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.UseMemory = true
		c.Timezone = "UTC"
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing dsns", func(c *Config) { c.UseMemory = false }},
		{"zero timeout", func(c *Config) { c.ProviderTimeout = 0 }},
		{"zero leaderboard", func(c *Config) { c.LeaderboardSize = 0 }},
		{"unknown metric", func(c *Config) { c.DefaultMetrics = []string{"likes"} }},
		{"user without password", func(c *Config) { c.BasicAuth.User = "admin" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"empty addr", func(c *Config) { c.Addr = "" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestOverrides(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", "dash.yaml", "--addr", ":1234", "--use-memory"}))

	cfg := Default()
	cfg.Timezone = "UTC"
	cfg.LeaderboardSize = 4
	o.Apply(cfg)

	assert.Equal(t, "dash.yaml", o.ConfigPath())
	assert.Equal(t, ":1234", cfg.Addr)
	assert.True(t, cfg.UseMemory)
	assert.Equal(t, "UTC", cfg.Timezone, "unset flags keep loaded values")
	assert.Equal(t, 4, cfg.LeaderboardSize)
}
