package config

import (
	"errors"
	"strings"
)

// Config represents the full application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Game     GameConfig     `yaml:"game"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name string `yaml:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen      string   `yaml:"listen"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

// ProviderConfig configures the OpenAI-compatible completion provider.
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`

	// Per-attempt HTTP timeout, e.g. "30s".
	Timeout string `yaml:"timeout"`
	// Total attempts, including the first one.
	MaxAttempts int `yaml:"maxAttempts"`
	// Backoff unit; the wait after attempt n is initialBackoff * 2^n.
	InitialBackoff string `yaml:"initialBackoff"`
	// Wall-clock ceiling for a whole completion call, backoff included.
	RequestBudget string `yaml:"requestBudget"`
}

// GameConfig configures the secret-word game.
type GameConfig struct {
	SecretWord string `yaml:"secretWord"`
	// SystemPrompt optionally replaces the built-in prompt template.
	SystemPrompt string `yaml:"systemPrompt"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Validate checks startup-time invariants. A missing API key or an empty
// secret word is a fatal configuration error, not a per-request condition.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return errors.New("provider.apiKey is required (set SECRETWORD_PROVIDER_APIKEY)")
	}
	if strings.TrimSpace(c.Game.SecretWord) == "" {
		return errors.New("game.secretWord must not be empty")
	}
	return nil
}
