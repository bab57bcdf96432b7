package config

import (
	"fmt"

	"github.com/leoagomes/ctrq/httpc"
	"github.com/leoagomes/ctrq/logger"
)

// Config is the file configuration consumed by the ctrq CLI.
//
//	logging:
//	  level: debug
//	http:
//	  timeout: 30s
//	  proxies:
//	    - http://proxy.internal:3128
type Config struct {
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	HTTP    httpc.Config  `yaml:"http" mapstructure:"http"`
}

// ApplyDefaults applies defaults to all sections.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()
}

// Validate validates all sections.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	return nil
}
