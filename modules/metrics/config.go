package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsConfig configures the exposition endpoint.
//
// Example YAML configuration:
//
//	metrics:
//	  path: /metrics
//	  namespace: verdant
//	  log_events: false
type MetricsConfig struct {
	Path      string `yaml:"path" toml:"path" default:"/metrics" desc:"Route serving the Prometheus exposition." env:"METRICS_PATH"`
	Namespace string `yaml:"namespace" toml:"namespace" default:"verdant" desc:"Prefix of every metric name." env:"METRICS_NAMESPACE"`

	// LogEvents writes every observed event to the application logger at
	// debug level.
	LogEvents bool `yaml:"log_events" toml:"log_events" desc:"Log every observed event at debug level." env:"METRICS_LOG_EVENTS"`
}

// Validate implements modular.ConfigValidator.
func (c *MetricsConfig) Validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, c.Path)
	}
	if !namespacePattern.MatchString(c.Namespace) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, c.Namespace)
	}
	return nil
}
