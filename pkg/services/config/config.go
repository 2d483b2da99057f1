package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the dashboard configuration, read from a YAML/TOML file and
// overridable through TAG_ATLAS_* environment variables.
type Config struct {
	// InventoryPath points at the resource inventory CSV loaded at
	// startup.
	InventoryPath string `mapstructure:"inventory_path"`

	Server ServerConfig `mapstructure:"server"`

	// TagFields optionally overrides the set of columns counted toward
	// the completeness score.
	TagFields []string `mapstructure:"tag_fields"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TAG_ATLAS")
	v.AutomaticEnv()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard config: %w", err)
	}
	if cfg.InventoryPath == "" {
		return nil, fmt.Errorf("inventory_path is required")
	}
	return &cfg, nil
}
