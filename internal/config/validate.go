package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLinker(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLinker() error {
	switch c.Linker.TieBreak {
	case TieBreakEarliestCreated, TieBreakLowestID:
		return nil
	default:
		return fmt.Errorf("linker.tie_break: unsupported value %q (use %q or %q)",
			c.Linker.TieBreak, TieBreakEarliestCreated, TieBreakLowestID)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
