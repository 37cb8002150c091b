package config

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML embed.FS

// Config holds everything the gateway needs at boot. Values come from the
// embedded defaults, overridden by an optional config file, overridden by
// environment variables.
type Config struct {
	Addr                  string   `yaml:"addr"`
	CatalogBaseURL        string   `yaml:"catalog_base_url"`
	AuthBaseURL           string   `yaml:"auth_base_url"`
	CORSOrigins           []string `yaml:"cors_origins"`
	PageSize              int      `yaml:"page_size"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
}

// RequestTimeout returns the upstream per-request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Load builds the effective configuration. The path may be empty; a missing
// file at a non-empty path is an error, since it was asked for explicitly.
// ${VAR} references inside YAML are expanded from the environment, matching
// how the source registry file is handled.
func Load(path string) (Config, error) {
	data, err := defaultYAML.ReadFile("default.yaml")
	if err != nil {
		return Config{}, fmt.Errorf("embedded defaults unavailable: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid embedded defaults: %w", err)
	}

	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(fileData))), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.PageSize <= 0 {
		cfg.PageSize = 6
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 15
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8081"
	}
	if cfg.CatalogBaseURL == "" {
		cfg.CatalogBaseURL = "http://localhost:3000"
	}
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = cfg.CatalogBaseURL + "/api"
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if v := os.Getenv("CATALOG_URL"); v != "" {
		cfg.CatalogBaseURL = v
	}
	if v := os.Getenv("AUTH_URL"); v != "" {
		cfg.AuthBaseURL = v
	}
	// CORS_ORIGINS replaces the configured list outright so production can
	// drop the development origin.
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
}
