package sitemux

import (
	"fmt"
	"time"
)

// SiteMuxConfig configures the site router.
//
// Example YAML configuration:
//
//	sitemux:
//	  allowed_origins:
//	    - "https://verdant.example"
//	  timeout: 30s
//	  compress: true
type SiteMuxConfig struct {
	// AllowedOrigins lists the origins allowed to call the session API from
	// another site. Use ["*"] to allow any origin.
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins" default:"[\"*\"]" desc:"List of allowed origins for CORS requests." env:"ALLOWED_ORIGINS"`

	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods" default:"[\"GET\",\"POST\",\"OPTIONS\"]" desc:"List of allowed HTTP methods." env:"ALLOWED_METHODS"`

	AllowedHeaders []string `yaml:"allowed_headers" toml:"allowed_headers" default:"[\"Origin\",\"Accept\",\"Content-Type\"]" desc:"List of allowed request headers." env:"ALLOWED_HEADERS"`

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int `yaml:"max_age" toml:"max_age" default:"300" desc:"Maximum age for CORS preflight cache in seconds." env:"MAX_AGE"`

	// Timeout bounds each request. Zero disables the timeout middleware.
	Timeout time.Duration `yaml:"timeout" toml:"timeout" default:"30s" desc:"Request timeout." env:"TIMEOUT"`

	// Compress enables gzip for text responses.
	Compress bool `yaml:"compress" toml:"compress" desc:"Compress text responses." env:"COMPRESS"`
}

// Validate implements modular.ConfigValidator.
func (c *SiteMuxConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxAge, c.MaxAge)
	}
	return nil
}
