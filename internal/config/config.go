// Package config loads server configuration from defaults, an optional YAML
// file, a .env file, DASHBOARD_* environment variables and flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"engagement-dashboard/internal/domain"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DASHBOARD_"

// Default values
const (
	DefaultAddr            = ":8080"
	DefaultProviderTimeout = 5 * time.Second
	DefaultLeaderboardSize = 10
	DefaultTimezone        = "Europe/London"
	DefaultEnvFile         = ".env"
)

// ErrInvalidConfig is returned when a loaded configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the server configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	PostgresDSN     string        `yaml:"postgres_dsn"`
	ClickhouseDSN   string        `yaml:"clickhouse_dsn"` // database taken from the path
	UseMemory       bool          `yaml:"use_memory"`
	BasicAuth       BasicAuth     `yaml:"basic_auth"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	DefaultMetrics  []string      `yaml:"default_metrics"` // empty: per subject kind
	LeaderboardSize int           `yaml:"leaderboard_size"`
	Timezone        string        `yaml:"timezone"` // IANA name used to decide "today"
	DevLog          bool          `yaml:"dev_log"`
}

// BasicAuth holds the shared dashboard credentials. An empty User disables auth.
type BasicAuth struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Enabled reports whether credentials are configured.
func (b BasicAuth) Enabled() bool {
	return b.User != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		ProviderTimeout: DefaultProviderTimeout,
		LeaderboardSize: DefaultLeaderboardSize,
		Timezone:        DefaultTimezone,
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty), ./.env and the process environment. The process
// environment wins over .env. Flags are applied separately by Overrides.
func Load(path string) (*Config, error) {
	return load(path, DefaultEnvFile, os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readYAML(path); err != nil {
			return nil, err
		}
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// readEnvFile returns the variables of a .env file, or nothing when it does not exist.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := env(EnvPrefix + name)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := get("POSTGRES_DSN"); ok {
		c.PostgresDSN = v
	}
	if v, ok := get("CLICKHOUSE_DSN"); ok {
		c.ClickhouseDSN = v
	}
	if v, ok := get("BASIC_AUTH_USER"); ok {
		c.BasicAuth.User = v
	}
	if v, ok := get("BASIC_AUTH_PASS"); ok {
		c.BasicAuth.Password = v
	}
	if v, ok := get("TIMEZONE"); ok {
		c.Timezone = v
	}
	if v, ok := get("DEFAULT_METRICS"); ok {
		c.DefaultMetrics = splitList(v)
	}

	if v, ok := get("USE_MEMORY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sUSE_MEMORY=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.UseMemory = b
	}
	if v, ok := get("DEV_LOG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sDEV_LOG=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.DevLog = b
	}
	if v, ok := get("PROVIDER_TIMEOUT"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sPROVIDER_TIMEOUT=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.ProviderTimeout = d
	}
	if v, ok := get("LEADERBOARD_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sLEADERBOARD_SIZE=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.LeaderboardSize = n
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}
	if !c.UseMemory && (c.PostgresDSN == "" || c.ClickhouseDSN == "") {
		return fmt.Errorf("%w: postgres and clickhouse DSNs are required unless use_memory is set", ErrInvalidConfig)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("%w: provider_timeout must be positive", ErrInvalidConfig)
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("%w: leaderboard_size must be positive", ErrInvalidConfig)
	}
	for _, m := range c.DefaultMetrics {
		if !domain.IsKnownMetric(m) {
			return fmt.Errorf("%w: unknown metric %q", ErrInvalidConfig, m)
		}
	}
	if c.BasicAuth.Enabled() && c.BasicAuth.Password == "" {
		return fmt.Errorf("%w: basic auth password is required when a user is set", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone that decides the current calendar day.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// parseDuration accepts Go durations ("5s", "750ms") and bare seconds ("5").
func parseDuration(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
