// Package config loads the host-facing engine configuration from a file
// and/or environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries the initialization parameters of the engine host.
type Config struct {
	// BaseURL is the root of the backend API, e.g. "https://forms.example/api/v2/".
	BaseURL string `mapstructure:"base_url"`
	// BasePath is the path prefix the hosting page is served under.
	BasePath string `mapstructure:"base_path"`
	// FormID identifies the form to load.
	FormID string `mapstructure:"form_id"`
	// Locale is the initial UI language.
	Locale string `mapstructure:"locale"`
	// UseHashRouting selects hash-based instead of path-based routing.
	UseHashRouting bool `mapstructure:"use_hash_routing"`
	// PollInterval is the pause between processing status polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.FormID == "" {
		return fmt.Errorf("form_id is required")
	}
	return nil
}

// setDefaults registers the default values. Every key gets a default so
// that environment-only configuration is picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "")
	v.SetDefault("form_id", "")
	v.SetDefault("base_path", "")
	v.SetDefault("locale", "nl")
	v.SetDefault("use_hash_routing", false)
	v.SetDefault("poll_interval", time.Second)
}

// Load reads the configuration from the given file path (optional, YAML) and
// the environment (prefix FORMFLOW, e.g. FORMFLOW_BASE_URL).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FORMFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
