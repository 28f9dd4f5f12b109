// Package config provides configuration management for zabbixctl.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with ZC_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ~/.zabbixctl/config.yaml, /etc/zabbixctl/config.yaml)
//  3. .env files
//  4. Environment variables (ZC_ prefix)
//
// # Environment Variables
//
// Use ZC_ prefix and underscores for nested keys:
//   - ZC_SERVER_URL=https://zabbix.example.com
//   - ZC_AUTH_PASSWORD=secret
//   - ZC_LOGGING_LEVEL=debug
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for zabbixctl.
type Config struct {
	// Server contains the monitoring server connection settings
	Server ServerConfig `mapstructure:"server"`

	// Auth contains the API credentials
	Auth AuthConfig `mapstructure:"auth"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains the monitoring server connection settings.
type ServerConfig struct {
	// URL is the server base URL, without the JSON-RPC endpoint path
	// (e.g. https://zabbix.example.com)
	URL string `mapstructure:"url"`

	// Timeout bounds every outbound API call
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig contains the API credentials.
type AuthConfig struct {
	// User is the API login user (default: Admin)
	User string `mapstructure:"user"`

	// Password is the API login password
	Password string `mapstructure:"password"`

	// Legacy switches login to the user.authenticate method used by old
	// server versions
	Legacy bool `mapstructure:"legacy"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (json, console)
	Format string `mapstructure:"format"`
}

// Load reads configuration from a file and environment variables. If cfgFile
// is empty, it searches for config.yaml in standard locations.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.zabbixctl")
		v.AddConfigPath("/etc/zabbixctl")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("ZC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Empty defaults register the keys so environment-only values survive
	// Unmarshal.
	v.SetDefault("server.url", "")
	v.SetDefault("server.timeout", "30s")

	v.SetDefault("auth.user", "Admin")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.legacy", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func validate(cfg *Config) error {
	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("invalid server timeout: %s", cfg.Server.Timeout)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
