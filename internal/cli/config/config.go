// Package config loads CLI configuration from cachegraph.yml.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the cachegraph CLI configuration.
type Config struct {
	SchemaDir string      `mapstructure:"schema_dir"`
	LogLevel  string      `mapstructure:"log_level"`
	Store     StoreConfig `mapstructure:"store"`
}

// StoreConfig selects and configures the raw store backend.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // "memory" or "redis"
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the Redis backend settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Load reads cachegraph.yml from the working directory, falling back to
// defaults when no file exists. Environment variables with the CACHEGRAPH
// prefix override file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("schema_dir", "schemas")
	v.SetDefault("log_level", "info")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.prefix", "cachegraph:")

	v.SetConfigName("cachegraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("CACHEGRAPH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
