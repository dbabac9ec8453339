// Package config loads jellybean settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all jellybean configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

type ProviderConfig struct {
	Name         string        `mapstructure:"name"`
	APIKey       string        `mapstructure:"api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Credential returns the key for the configured provider. An explicit
// provider.api_key wins over the vendor environment variables.
func (p ProviderConfig) Credential() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	if p.Name == "openai" {
		return p.OpenAIAPIKey
	}
	return p.GeminiAPIKey
}

// Dir returns the per-user jellybean config directory.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".jellybean"
	}
	return filepath.Join(base, "jellybean")
}

func defaultLogFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "jellybean.log")
	}
	return filepath.Join(base, "jellybean", "jellybean.log")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", "gemini")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.timeout", 60*time.Second)
	v.SetDefault("history.path", filepath.Join(Dir(), "history.json"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("server.addr", "127.0.0.1")
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})
}

// Load reads configPath, or config.yaml from the user config dir and the
// working directory when configPath is empty. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("JELLYBEAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Vendor keys are read under their conventional names.
	_ = v.BindEnv("provider.gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("provider.openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("provider.api_key", "JELLYBEAN_PROVIDER_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
