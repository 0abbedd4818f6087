// Package config loads runtime configuration for the showroom CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config.
//  3. SHOWROOM_* environment variables, also read from a .env file.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   storage driver: sqlite, postgres or memory
//	-d string   storage DSN (sqlite file path or postgres URL)
//	-p string   password scheme for new passwords: plain, argon2id or bcrypt
//	-e string   directory account exports are written to
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
//	{
//	  "storage_driver": "sqlite",
//	  "storage_dsn": "showroom.db",
//	  "password_scheme": "plain",
//	  "export_dir": "exports",
//	  "log_level": "info"
//	}
//
// Comments and trailing commas are accepted in JSON. A file ending in .toml,
// .yaml or .yml uses the same keys. Keys missing from the file keep their default values. Malformed JSON or
// flags panic, the caller decides whether to recover.
package config
