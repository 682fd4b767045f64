package config

import (
	"fmt"

	"github.com/kbukum/reqkit/logger"
)

// BaseConfig contains the fields every reqkit program shares.
// Programs embed it in their own config structs:
//
//	type CLIConfig struct {
//	    config.BaseConfig `yaml:",inline" mapstructure:",squash"`
//	    Client httpclient.Config `yaml:"client" mapstructure:"client"`
//	}
type BaseConfig struct {
	Name   string        `yaml:"name" mapstructure:"name"`
	Debug  bool          `yaml:"debug" mapstructure:"debug"`
	Logger logger.Config `yaml:"logger" mapstructure:"logger"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "reqkit"
	}
	if c.Debug && c.Logger.Level == "" {
		c.Logger.Level = "debug"
	}
	c.Logger.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("config.logger: %w", err)
	}
	return nil
}
