package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-fetch/fetch"
)

const (
	// DefaultFile is the configuration file picked up from the working
	// directory when no explicit path is given.
	DefaultFile = "gofetch.yaml"

	// EnvPrefix marks the environment variables read into the configuration.
	// GOFETCH_RETRY_MAXRETRIES=5 sets retry.maxretries.
	EnvPrefix = "GOFETCH_"
)

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. gofetch.yaml in the working directory, when present
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return load("", false)
}

// LoadFile is Load with an explicit configuration file instead of the
// optional gofetch.yaml. The file must exist and parse.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is empty")
	}
	return load(path, true)
}

func load(path string, required bool) (*Config, error) {
	k := koanf.New(".")

	// Load default configuration first
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Load from YAML file. The default file is optional; an explicit one
	// must load cleanly.
	if !required {
		path = DefaultFile
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	// Load environment variables (highest priority)
	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// Convert GOFETCH_UPPER_CASE to lower.case for koanf
			key = strings.TrimPrefix(key, EnvPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "gofetch",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,
		"app.debug":   false,

		"request.timeout": fetch.DefaultTimeout,

		"retry.maxretries":  fetch.DefaultMaxRetries,
		"retry.backoffbase": fetch.DefaultBackoffBase,

		"log.level":  "info",
		"log.pretty": false,

		"observability.enabled":         false,
		"observability.service.name":    "gofetch",
		"observability.service.version": "v1.0.0",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
