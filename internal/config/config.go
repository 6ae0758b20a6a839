// Package config loads and writes the persistent connection settings.
// The token is deliberately not part of the persisted file; it is
// resolved separately from flags, a token file, or the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"gls/internal/gitlab"
)

const (
	// DefaultAPIURL targets gitlab.com; self-hosted instances override it.
	DefaultAPIURL = "https://gitlab.com/api/v4"

	// FileBase is the config file name without extension.
	FileBase = ".gitlab-search-config"

	// EnvToken is the environment variable consulted when no token flag
	// or token file is given.
	EnvToken = "GITLAB_SEARCH_TOKEN"
)

// Config holds the persistable settings.
type Config struct {
	APIURL      string `mapstructure:"api-url" json:"api-url,omitempty"`
	IgnoreCert  bool   `mapstructure:"ignore-cert" json:"ignore-cert,omitempty"`
	MaxRequests int    `mapstructure:"max-requests" json:"max-requests,omitempty"`
}

// Default returns the built-in settings used when no config file exists.
func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		MaxRequests: gitlab.DefaultMaxRequests,
	}
}

// Load reads the first config file found in dir, the home directory, or
// /etc, in that order. A missing file is not an error; defaults apply.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName(FileBase)
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("/etc")

	v.SetDefault("api-url", DefaultAPIURL)
	v.SetDefault("max-requests", gitlab.DefaultMaxRequests)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Write persists cfg to dir, storing only the keys that differ from the
// defaults so the file stays a record of deliberate choices.
func Write(dir string, cfg Config) (string, error) {
	settings := make(map[string]any)
	if cfg.APIURL != "" && cfg.APIURL != DefaultAPIURL {
		settings["api-url"] = cfg.APIURL
	}
	if cfg.IgnoreCert {
		settings["ignore-cert"] = true
	}
	if cfg.MaxRequests != 0 && cfg.MaxRequests != gitlab.DefaultMaxRequests {
		settings["max-requests"] = cfg.MaxRequests
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileBase+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

// ResolveToken picks the access token from, in order of precedence, the
// --token flag, the --token-file flag, and the GITLAB_SEARCH_TOKEN
// environment variable. An empty result means no token was configured.
func ResolveToken(token, tokenFile string) (string, error) {
	if token != "" {
		return token, nil
	}
	if tokenFile != "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", fmt.Errorf("reading token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv(EnvToken), nil
}
