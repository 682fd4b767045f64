package httpclient

import (
	"time"

	"github.com/kbukum/reqkit/transport/nethttp"
	"github.com/kbukum/reqkit/validation"
	"github.com/kbukum/reqkit/version"
)

// Config configures a Client.
type Config struct {
	// Transport selects the engine: "nethttp" (default) or "resty".
	Transport string `yaml:"transport" mapstructure:"transport" validate:"omitempty,oneof=nethttp resty"`

	// UserAgent is sent when a request sets none. Defaults to reqkit/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout applies to requests without their own timeout. Zero means none.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Transport == "" {
		c.Transport = nethttp.Name
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
