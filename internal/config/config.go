package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Verbose bool `mapstructure:"verbose"`

	// Default values for the monitor command
	Monitor MonitorConfig `mapstructure:"monitor"`
}

// MonitorConfig holds defaults for the monitor dashboard
type MonitorConfig struct {
	IntervalSecs int  `mapstructure:"interval_secs"`
	ShowAll      bool `mapstructure:"show_all"`
	Compact      bool `mapstructure:"compact"`
	Notify       bool `mapstructure:"notify"`
	Jump         bool `mapstructure:"jump"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Verbose: false,
		Monitor: MonitorConfig{
			IntervalSecs: 2,
		},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("coder-tools")
	v.SetConfigType("yaml")

	// Config paths, lowest precedence first
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "coder-tools"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".coder-tools")
	}
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("CODER_TOOLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.BindEnv("verbose", "CODER_TOOLS_VERBOSE")
	v.BindEnv("monitor.interval_secs", "CODER_TOOLS_INTERVAL")

	cfg := Default()
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("monitor.interval_secs", cfg.Monitor.IntervalSecs)
	v.SetDefault("monitor.show_all", cfg.Monitor.ShowAll)
	v.SetDefault("monitor.compact", cfg.Monitor.Compact)
	v.SetDefault("monitor.notify", cfg.Monitor.Notify)
	v.SetDefault("monitor.jump", cfg.Monitor.Jump)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
