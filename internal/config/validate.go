package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnnotate(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnnotate() error {
	if c.Annotate.Output == "" {
		return errors.New("annotate.output must be set")
	}
	if c.Annotate.DropdownThreshold < 1 {
		return errors.New("annotate.dropdown_threshold must be at least 1")
	}
	if c.Annotate.MaxTextWidth < 20 {
		return errors.New("annotate.max_text_width must be at least 20")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
