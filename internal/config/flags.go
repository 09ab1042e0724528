package config

import (
	"flag"
	"time"
)

// Overrides holds command-line flags that take precedence over every other source.
type Overrides struct {
	fs *flag.FlagSet

	configPath      string
	addr            string
	postgresDSN     string
	clickhouseDSN   string
	useMemory       bool
	providerTimeout time.Duration
	leaderboardSize int
	timezone        string
	devLog          bool
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Overrides {
	o := &Overrides{fs: fs}
	fs.StringVar(&o.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&o.addr, "addr", DefaultAddr, "HTTP listen address")
	fs.StringVar(&o.postgresDSN, "postgres-dsn", "", "PostgreSQL connection string")
	fs.StringVar(&o.clickhouseDSN, "clickhouse-dsn", "", "ClickHouse connection string")
	fs.BoolVar(&o.useMemory, "use-memory", false, "Use in-memory storage with demo data")
	fs.DurationVar(&o.providerTimeout, "provider-timeout", DefaultProviderTimeout, "Timeout of each engagement fetch")
	fs.IntVar(&o.leaderboardSize, "leaderboard-size", DefaultLeaderboardSize, "Default leaderboard length")
	fs.StringVar(&o.timezone, "timezone", DefaultTimezone, "IANA time zone deciding the current day")
	fs.BoolVar(&o.devLog, "dev-log", false, "Human-readable development logging")
	return o
}

// ConfigPath returns the --config value.
func (o *Overrides) ConfigPath() string {
	return o.configPath
}

// Apply copies explicitly set flags onto c. Flags left at their defaults do
// not override values from the file or environment.
func (o *Overrides) Apply(c *Config) {
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			c.Addr = o.addr
		case "postgres-dsn":
			c.PostgresDSN = o.postgresDSN
		case "clickhouse-dsn":
			c.ClickhouseDSN = o.clickhouseDSN
		case "use-memory":
			c.UseMemory = o.useMemory
		case "provider-timeout":
			c.ProviderTimeout = o.providerTimeout
		case "leaderboard-size":
			c.LeaderboardSize = o.leaderboardSize
		case "timezone":
			c.Timezone = o.timezone
		case "dev-log":
			c.DevLog = o.devLog
		}
	})
}
