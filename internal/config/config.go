package config

import "os"

// Storage drivers accepted in StorageDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime settings for the showroom CLI.
type Config struct {
	StorageDriver  string
	StorageDSN     string
	PasswordScheme string
	ExportDir      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = DriverSQLite
	c.StorageDSN = "showroom.db"
	c.PasswordScheme = "plain"
	c.ExportDir = "exports"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load applies defaults, then the config file named in args (if any), then
// SHOWROOM_* environment variables, then the flags in args.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
