package main

import (
	"fmt"

	"github.com/kbukum/juiceplant/config"
	"github.com/kbukum/juiceplant/farm"
	"github.com/kbukum/juiceplant/observability"
	"github.com/kbukum/juiceplant/server"
)

// Config is the juiceplant binary's configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Farm          farm.Config          `yaml:"farm" mapstructure:"farm"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section's defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "juiceplant"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Farm.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Farm.Validate(); err != nil {
		return fmt.Errorf("farm: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
