package site

import "fmt"

// SiteConfig holds the page and API settings.
//
// Example YAML configuration:
//
//	site:
//	  contact_rate: 1
//	  contact_burst: 5
type SiteConfig struct {
	// ContactRate is the sustained number of contact submissions per second
	// accepted across the whole process.
	ContactRate float64 `yaml:"contact_rate" toml:"contact_rate" default:"1" desc:"Contact submissions allowed per second." env:"SITE_CONTACT_RATE"`

	ContactBurst int `yaml:"contact_burst" toml:"contact_burst" default:"5" desc:"Contact submissions allowed in a burst." env:"SITE_CONTACT_BURST"`

	// MaxBodyBytes caps JSON and form request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes" toml:"max_body_bytes" default:"65536" desc:"Largest accepted request body." env:"SITE_MAX_BODY_BYTES"`
}

// Validate implements modular.ConfigValidator.
func (c *SiteConfig) Validate() error {
	if c.ContactRate <= 0 {
		return fmt.Errorf("%w: contact_rate=%v", ErrInvalidRate, c.ContactRate)
	}
	if c.ContactBurst < 1 {
		return fmt.Errorf("%w: contact_burst=%d", ErrInvalidRate, c.ContactBurst)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBodyLimit, c.MaxBodyBytes)
	}
	return nil
}
