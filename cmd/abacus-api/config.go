package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/abacus/internal/logging"
	"github.com/tinytelemetry/abacus/internal/model"
)

// apiConfig holds the HTTP API configuration.
type apiConfig struct {
	Addr          string `mapstructure:"addr"`
	CacheSize     int    `mapstructure:"cache-size"`
	MaxReplayKeys int    `mapstructure:"max-replay-keys"`
	LogLevel      string `mapstructure:"log-level"`
}

var defaultAddr = fmt.Sprintf("127.0.0.1:%d", model.DefaultAPIPort)

func loadConfig(configPath string, flags *pflag.FlagSet) (apiConfig, error) {
	var cfg apiConfig

	v := viper.New()
	v.SetEnvPrefix("ABACUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("cache-size", model.DefaultCacheSize)
	v.SetDefault("max-replay-keys", model.DefaultMaxReplayKeys)
	v.SetDefault("log-level", model.DefaultLogLevel)

	if flags != nil {
		if f := flags.Lookup("addr"); f != nil {
			if err := v.BindPFlag("addr", f); err != nil {
				return cfg, fmt.Errorf("binding flag addr: %w", err)
			}
		}
	}

	if configPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configPath = filepath.Join(home, ".config", "abacus", "config.yml")
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Addr == "" {
		return cfg, errors.New("addr must not be empty")
	}
	if cfg.MaxReplayKeys <= 0 {
		return cfg, fmt.Errorf("max-replay-keys must be positive, got %d", cfg.MaxReplayKeys)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}

	return cfg, nil
}
