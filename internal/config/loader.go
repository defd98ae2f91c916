package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from files and environment variables.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "secretword"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "SECRETWORD"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)
	bindKeys(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand environment variables in config values
	cfg = expandEnvVars(cfg)

	return cfg, nil
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings.
func expandEnvVars(cfg Config) Config {
	cfg.App.Name = expandEnvString(cfg.App.Name)

	cfg.Server.Listen = expandEnvString(cfg.Server.Listen)
	cfg.Server.CORSOrigins = expandEnvStringSlice(cfg.Server.CORSOrigins)

	cfg.Provider.APIKey = expandEnvString(cfg.Provider.APIKey)
	cfg.Provider.BaseURL = expandEnvString(cfg.Provider.BaseURL)
	cfg.Provider.Model = expandEnvString(cfg.Provider.Model)
	cfg.Provider.Timeout = expandEnvString(cfg.Provider.Timeout)
	cfg.Provider.InitialBackoff = expandEnvString(cfg.Provider.InitialBackoff)
	cfg.Provider.RequestBudget = expandEnvString(cfg.Provider.RequestBudget)

	cfg.Game.SecretWord = expandEnvString(cfg.Game.SecretWord)
	cfg.Game.SystemPrompt = expandEnvString(cfg.Game.SystemPrompt)

	return cfg
}

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	// Replace ${VAR} syntax
	re := regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	// Replace $VAR syntax (without braces)
	re = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// expandEnvStringSlice expands environment variables in a slice of strings.
func expandEnvStringSlice(slice []string) []string {
	if len(slice) == 0 {
		return slice
	}
	result := make([]string, len(slice))
	for i, s := range slice {
		result[i] = expandEnvString(s)
	}
	return result
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Secret Word Challenge")

	v.SetDefault("server.listen", ":8000")
	v.SetDefault("server.corsOrigins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	})

	v.SetDefault("provider.baseURL", "https://openrouter.ai/api/v1")
	v.SetDefault("provider.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("provider.timeout", "30s")
	v.SetDefault("provider.maxAttempts", 4)
	v.SetDefault("provider.initialBackoff", "1s")
	v.SetDefault("provider.requestBudget", "60s")

	v.SetDefault("game.secretWord", "ECLIPSE2025")

	v.SetDefault("logging.debug", false)
}

// bindKeys registers keys that have no default, so AutomaticEnv picks them
// up during Unmarshal.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"provider.apiKey",
		"game.systemPrompt",
	} {
		// BindEnv only errors on an empty key.
		_ = v.BindEnv(key)
	}
}
