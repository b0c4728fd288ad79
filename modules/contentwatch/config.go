package contentwatch

import (
	"fmt"
	"time"

	"github.com/GoCodeAlone/verdant/content"
)

// ContentWatchConfig selects the content catalog.
//
// Example YAML configuration:
//
//	contentwatch:
//	  path: ./content.yaml
//	  watch: true
//	  debounce: 250ms
type ContentWatchConfig struct {
	// Path to a YAML or TOML catalog. Empty serves the embedded catalog.
	Path string `yaml:"path" toml:"path" desc:"Content file (.yaml, .yml or .toml); empty uses the built-in catalog." env:"CONTENT_PATH"`

	// Watch reloads the file when it changes.
	Watch bool `yaml:"watch" toml:"watch" desc:"Reload the content file when it changes." env:"CONTENT_WATCH"`

	Debounce time.Duration `yaml:"debounce" toml:"debounce" default:"250ms" desc:"Quiet period before a change is reloaded." env:"CONTENT_DEBOUNCE"`
}

// Validate implements modular.ConfigValidator.
func (c *ContentWatchConfig) Validate() error {
	if c.Path != "" {
		if _, err := content.FormatFor(c.Path); err != nil {
			return fmt.Errorf("contentwatch path: %w", err)
		}
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDebounce, c.Debounce)
	}
	return nil
}
