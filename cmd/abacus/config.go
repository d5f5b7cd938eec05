package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/abacus/internal/logging"
	"github.com/tinytelemetry/abacus/internal/model"
)

// cliConfig holds the TUI configuration.
type cliConfig struct {
	ErrorDelay time.Duration `mapstructure:"error-delay"`
	Skin       string        `mapstructure:"skin"`
	TapeSize   int           `mapstructure:"tape-size"`
	CacheSize  int           `mapstructure:"cache-size"`
	LogLevel   string        `mapstructure:"log-level"`
	LogFile    string        `mapstructure:"log-file"`
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "abacus")
}

// loadCLIConfig layers defaults, the config file, ABACUS_* environment
// variables and changed flags, in that order of increasing precedence.
func loadCLIConfig(configPath string, flags *pflag.FlagSet) (cliConfig, error) {
	var cfg cliConfig

	v := viper.New()
	v.SetEnvPrefix("ABACUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("error-delay", model.DefaultErrorDelay)
	v.SetDefault("skin", model.DefaultSkin)
	v.SetDefault("tape-size", model.DefaultTapeSize)
	v.SetDefault("cache-size", model.DefaultCacheSize)
	v.SetDefault("log-level", model.DefaultLogLevel)
	v.SetDefault("log-file", logging.DefaultLogPath())

	if flags != nil {
		for _, name := range []string{"skin", "error-delay"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return cfg, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath == "" {
		if dir := defaultConfigDir(); dir != "" {
			configPath = filepath.Join(dir, "config.yml")
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

	if cfg.ErrorDelay <= 0 {
		return cfg, fmt.Errorf("error-delay must be positive, got %s", cfg.ErrorDelay)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}

	return cfg, nil
}
