package cli

import (
	"fmt"
	"time"

	"github.com/kbukum/reqkit/config"
	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/validation"
)

// Config is the reqkit CLI configuration, read from reqkit.yml, .env and
// REQKIT_* environment variables.
type Config struct {
	config.BaseConfig `yaml:",inline" mapstructure:",squash"`

	Client  httpclient.Config `yaml:"client" mapstructure:"client"`
	TLS     TLSDefaults       `yaml:"tls" mapstructure:"tls"`
	Tracing TracingConfig     `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}

// TLSDefaults apply to every https request unless overridden by flags.
type TLSDefaults struct {
	CAFile   string `yaml:"ca_file" mapstructure:"ca_file"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
}

// TracingConfig enables span export over OTLP/HTTP.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MetricsConfig enables metric export over OTLP/HTTP.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Client.ApplyDefaults()
	if c.Tracing.Enabled && c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = 15 * time.Second
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("config.client: %w", err)
	}
	if err := validation.Validate(&c.Tracing); err != nil {
		return fmt.Errorf("config.tracing: %w", err)
	}
	if err := validation.Validate(&c.Metrics); err != nil {
		return fmt.Errorf("config.metrics: %w", err)
	}
	return nil
}

// LoadConfig reads the configuration, applies defaults and validates it.
// Empty paths fall back to the standard search locations.
func LoadConfig(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig("reqkit", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
