// Package config loads the simulator's runtime configuration from a YAML
// file, with environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration for the simulator.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Identity IdentityConfig `mapstructure:"identity"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig controls the DoIP TCP listener.
type ServerConfig struct {
	ListenAddr         string `mapstructure:"listenAddr"`
	IdleTimeoutSeconds int    `mapstructure:"idleTimeoutSeconds"`
}

// IdentityConfig is the VIN/address identity advertised to testers.
type IdentityConfig struct {
	VIN            string `mapstructure:"vin"`
	LogicalAddress uint16 `mapstructure:"logicalAddress"`
	EntityID       uint16 `mapstructure:"entityId"`
}

// LoggerConfig controls structured log output and rotation.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"filePath"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Console    bool   `mapstructure:"console"`
}

// Default returns the configuration the simulator boots with when no file
// is supplied, matching the identity and timeouts spec.md's scenarios use.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:         ":13400",
			IdleTimeoutSeconds: 15,
		},
		Identity: IdentityConfig{
			VIN:            "123456",
			LogicalAddress: 0x0000,
			EntityID:       0xE000,
		},
		Logger: LoggerConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads a YAML config file at path, falling back to Default for any
// field the file doesn't set, and lets environment variables (with "."
// replaced by "_") override individual keys.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
