package config

import "fmt"

// Validate checks the configuration for consistency. It is called as the
// final loading step.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}

	switch c.Auth.Type {
	case "none":
	case "apikey":
		if len(c.Auth.APIKeys) == 0 {
			return fmt.Errorf("auth.api_keys must not be empty when auth.type is %q", c.Auth.Type)
		}
		for i, k := range c.Auth.APIKeys {
			if k.Key == "" {
				return fmt.Errorf("auth.api_keys[%d].key is empty", i)
			}
		}
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when auth.type is %q", c.Auth.Type)
		}
	default:
		return fmt.Errorf("auth.type must be one of none, apikey, jwt; got %q", c.Auth.Type)
	}

	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		return fmt.Errorf("observability.metrics.path must not be empty when metrics are enabled")
	}

	return nil
}
