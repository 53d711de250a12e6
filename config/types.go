package config

import (
	"time"

	"github.com/gaborage/go-fetch/fetch"
	"github.com/gaborage/go-fetch/observability"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config represents the overall gofetch configuration structure.
// It is assembled from defaults, an optional YAML file, and
// GOFETCH_-prefixed environment variables, in increasing priority.
type Config struct {
	App           AppConfig            `koanf:"app" json:"app" yaml:"app" toml:"app" mapstructure:"app"`
	Request       RequestConfig        `koanf:"request" json:"request" yaml:"request" toml:"request" mapstructure:"request"`
	Retry         RetryConfig          `koanf:"retry" json:"retry" yaml:"retry" toml:"retry" mapstructure:"retry"`
	Log           LogConfig            `koanf:"log" json:"log" yaml:"log" toml:"log" mapstructure:"log"`
	Observability observability.Config `koanf:"observability" json:"observability" yaml:"observability" toml:"observability" mapstructure:"observability"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" toml:"version" mapstructure:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" toml:"env" mapstructure:"env" validate:"oneof=development staging production"`
	Debug   bool   `koanf:"debug" json:"debug" yaml:"debug" toml:"debug" mapstructure:"debug"`
}

// RequestConfig holds defaults applied to outgoing requests.
// A request that sets its own timeout or headers overrides these.
type RequestConfig struct {
	// Timeout is the per-attempt deadline applied when a request does not
	// carry its own.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// Headers are attached to every outgoing request. Headers set on the
	// request itself take precedence.
	Headers map[string]string `koanf:"headers" json:"headers" yaml:"headers" toml:"headers" mapstructure:"headers"`
}

// RetryConfig holds retry loop settings.
type RetryConfig struct {
	// MaxRetries is the number of re-attempts after the first try.
	// Zero disables retries entirely.
	MaxRetries int `koanf:"maxretries" json:"maxretries" yaml:"maxretries" toml:"maxretries" mapstructure:"maxretries" validate:"gte=0"`

	// BackoffBase is the delay before the first retry. Subsequent retries
	// double it.
	BackoffBase time.Duration `koanf:"backoffbase" json:"backoffbase" yaml:"backoffbase" toml:"backoffbase" mapstructure:"backoffbase" validate:"gt=0"`
}

// Policy returns the retry settings as a fetch.RetryPolicy.
func (c *RetryConfig) Policy() fetch.RetryPolicy {
	return fetch.RetryPolicy{
		MaxRetries:  c.MaxRetries,
		BackoffBase: c.BackoffBase,
	}
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" toml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" toml:"pretty" mapstructure:"pretty"`
}
