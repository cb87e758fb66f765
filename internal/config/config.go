// Package config loads client configuration from defaults, an optional
// config.yaml in the data directory, and CHATTERM_* environment
// variables (highest precedence). A .env file is honored if present.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		BaseURL string
		Timeout time.Duration
	}
	Logging struct {
		Level string
		File  string
	}
	DataDir string
}

func DefaultConfig() Config {
	cfg := Config{}
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.Server.Timeout = 30 * time.Second
	cfg.Logging.Level = "info"
	cfg.Logging.File = ""
	cfg.DataDir = defaultDataDir()
	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatterm"
	}
	return filepath.Join(home, ".chatterm")
}

// Load resolves the effective configuration. A missing config file is
// not an error; a malformed one is.
func Load() (Config, error) {
	_ = godotenv.Load()

	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("server.url", defaults.Server.BaseURL)
	v.SetDefault("server.timeout", defaults.Server.Timeout)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("data_dir", defaults.DataDir)

	v.SetEnvPrefix("CHATTERM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("data_dir"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	cfg := Config{}
	cfg.Server.BaseURL = v.GetString("server.url")
	cfg.Server.Timeout = v.GetDuration("server.timeout")
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.File = v.GetString("logging.file")
	cfg.DataDir = v.GetString("data_dir")
	return cfg, nil
}
