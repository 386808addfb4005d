package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config is the summarizer service configuration, loaded from YAML with
// SUMMARIZERD_* environment overrides.
type Config struct {
	Port           int     `yaml:"port" koanf:"port"`
	Provider       string  `yaml:"provider" koanf:"provider"`
	Model          string  `yaml:"model" koanf:"model"`
	APIKey         string  `yaml:"api_key" koanf:"api_key"`
	APIKeyFallback string  `yaml:"api_key_fallback" koanf:"api_key_fallback"`
	AllowAll       bool    `yaml:"allow_all" koanf:"allow_all"`
	MaxTokens      int     `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature    float64 `yaml:"temperature" koanf:"temperature"`
}

// DefaultConfig is Gemini flash on port 5000.
func DefaultConfig() *Config {
	return &Config{
		Port:        5000,
		Provider:    "google",
		Model:       "gemini-2.5-flash",
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}

// LoadConfig reads the YAML file at path if it exists, then overlays
// environment variables (SUMMARIZERD_PORT -> port, etc).
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("SUMMARIZERD_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SUMMARIZERD_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[string]bool{
	"google": true,
	"openai": true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, openai", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	return nil
}
