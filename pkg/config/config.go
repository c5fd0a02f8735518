// Package config provides unified configuration for the LightFlow relay.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (LIGHTFLOW_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the LightFlow relay.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP serving-surface settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 0 (streams disable it)
	MaxBodySize  int64         `yaml:"max_body_size"` // default: 10 MiB
}

// UpstreamConfig holds the Chat Completions backend settings.
type UpstreamConfig struct {
	BaseURL      string        `yaml:"base_url"`     // required
	APIKey       string        `yaml:"api_key"`      // optional
	APIKeyFile   string        `yaml:"api_key_file"` // _file variant for api_key
	DefaultModel string        `yaml:"default_model"`
	Timeout      time.Duration `yaml:"timeout"` // blocking calls only, default: 120s
}

// AuthConfig holds inbound authentication settings for the serving surface.
type AuthConfig struct {
	Type          string         `yaml:"type"`     // "none", "apikey", or "jwt", default: "none"
	APIKeys       []APIKeyConfig `yaml:"api_keys"` // key entries for type=apikey
	JWTSecret     string         `yaml:"jwt_secret"`
	JWTSecretFile string         `yaml:"jwt_secret_file"` // _file variant for jwt_secret
	JWTIssuer     string         `yaml:"jwt_issuer"`
}

// APIKeyConfig describes a single inbound API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	KeyFile string `yaml:"key_file"` // _file variant for key
	Subject string `yaml:"subject"`
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			ReadTimeout: 30 * time.Second,
			MaxBodySize: 10 << 20,
		},
		Upstream: UpstreamConfig{
			Timeout: 120 * time.Second,
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
