package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvStorageDriver  = "SHOWROOM_STORAGE_DRIVER"
	EnvStorageDSN     = "SHOWROOM_STORAGE_DSN"
	EnvPasswordScheme = "SHOWROOM_PASSWORD_SCHEME"
	EnvExportDir      = "SHOWROOM_EXPORT_DIR"
	EnvLogLevel       = "SHOWROOM_LOG_LEVEL"
)

// parseEnv overlays cfg with SHOWROOM_* variables. A .env file in the
// working directory is loaded first if present; variables already set in
// the environment win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	overlay(&cfg.StorageDriver, os.Getenv(EnvStorageDriver))
	overlay(&cfg.StorageDSN, os.Getenv(EnvStorageDSN))
	overlay(&cfg.PasswordScheme, os.Getenv(EnvPasswordScheme))
	overlay(&cfg.ExportDir, os.Getenv(EnvExportDir))
	overlay(&cfg.LogLevel, os.Getenv(EnvLogLevel))
}
