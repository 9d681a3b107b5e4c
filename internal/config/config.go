package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Rates    RatesConfig
	Server   ServerConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ImportConfig holds ingestion settings.
type ImportConfig struct {
	BaseCurrency string        `mapstructure:"base_currency"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

// RatesConfig holds exchange-rate provider settings.
type RatesConfig struct {
	ProviderURL string        `mapstructure:"provider_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix STONKS_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "notstonks", "notstonks.db"))
	v.SetDefault("import.base_currency", "CZK")
	v.SetDefault("import.session_ttl", "15m")
	v.SetDefault("rates.provider_url", "https://api.frankfurter.app")
	v.SetDefault("rates.timeout", "5s")
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("STONKS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "notstonks"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STONKS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Import.BaseCurrency == "" {
		return Config{}, fmt.Errorf("import.base_currency must not be empty")
	}
	c.Import.BaseCurrency = strings.ToUpper(c.Import.BaseCurrency)
	if c.Import.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("import.session_ttl must be positive, got %s", c.Import.SessionTTL)
	}
	return c, nil
}
