package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL targets a locally running platform server.
const DefaultAPIBaseURL = "http://localhost:8080/api/v1"

// ConsoleConfig holds the console's settings, read from
// ~/.stratforge/config.yaml with environment overrides.
type ConsoleConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
}

// loadConsoleConfig merges defaults, the config file, and environment.
func loadConsoleConfig() ConsoleConfig {
	cfg := ConsoleConfig{APIBaseURL: DefaultAPIBaseURL}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".stratforge", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	if url := os.Getenv("STRATFORGE_API_URL"); url != "" {
		cfg.APIBaseURL = url
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	return cfg
}
