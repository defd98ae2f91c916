package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avolkov/secretword/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Provider: config.ProviderConfig{APIKey: "sk-test"},
		Game:     config.GameConfig{SecretWord: "ECLIPSE2025"},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.APIKey = "   "

	err := cfg.Validate()
	assert.ErrorContains(t, err, "apiKey")
}

func TestValidate_EmptySecretWord(t *testing.T) {
	cfg := validConfig()
	cfg.Game.SecretWord = ""

	err := cfg.Validate()
	assert.ErrorContains(t, err, "secretWord")
}
