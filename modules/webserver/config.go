package webserver

import (
	"fmt"
	"time"
)

// WebServerConfig configures the HTTP listener.
type WebServerConfig struct {
	// Host is the address to bind to. Empty binds every interface.
	Host string `yaml:"host" toml:"host" default:"0.0.0.0" desc:"Address to bind to." env:"WEBSERVER_HOST"`

	// Port to listen on. 0 picks a free port, which tests rely on.
	Port int `yaml:"port" toml:"port" desc:"Port to listen on." env:"WEBSERVER_PORT"`

	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" default:"15s" desc:"Maximum duration for reading a request." env:"WEBSERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" default:"15s" desc:"Maximum duration for writing a response." env:"WEBSERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" toml:"idle_timeout" default:"60s" desc:"Keep-alive idle timeout." env:"WEBSERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" default:"10s" desc:"Graceful shutdown limit." env:"WEBSERVER_SHUTDOWN_TIMEOUT"`
}

// Validate implements modular.ConfigValidator.
func (c *WebServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"idle_timeout":     c.IdleTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s=%s", ErrInvalidTimeout, name, d)
		}
	}
	return nil
}

// Address is the host:port the server listens on.
func (c *WebServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
