package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/jdmshowroom/internal/flagx"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk shape of the config file. JSON may carry
// comments and trailing commas; .toml and .yaml/.yml files use the same keys.
type JsonConfig struct {
	StorageDriver  string `json:"storage_driver" toml:"storage_driver" yaml:"storage_driver"`
	StorageDSN     string `json:"storage_dsn" toml:"storage_dsn" yaml:"storage_dsn"`
	PasswordScheme string `json:"password_scheme" toml:"password_scheme" yaml:"password_scheme"`
	ExportDir      string `json:"export_dir" toml:"export_dir" yaml:"export_dir"`
	LogLevel       string `json:"log_level" toml:"log_level" yaml:"log_level"`
}

func decodeFile(path string, data []byte, jc *JsonConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, jc)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, jc)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), jc)
	}
}

// parseJson overlays cfg with the non-empty values of the file given by
// -c/-config. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := decodeFile(path, data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.StorageDriver, jc.StorageDriver)
	overlay(&cfg.StorageDSN, jc.StorageDSN)
	overlay(&cfg.PasswordScheme, jc.PasswordScheme)
	overlay(&cfg.ExportDir, jc.ExportDir)
	overlay(&cfg.LogLevel, jc.LogLevel)
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
