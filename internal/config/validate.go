package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateStatus(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if strings.TrimSpace(c.Engine.Binary) == "" {
		return errors.New("engine.binary must be set")
	}
	if c.Engine.TimeoutSeconds <= 0 {
		return errors.New("engine.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateStatus() error {
	columns := []struct {
		name  string
		value string
	}{
		{"status.status_column", c.Status.StatusColumn},
		{"status.updated_at_column", c.Status.UpdatedAtColumn},
		{"status.message_column", c.Status.MessageColumn},
	}
	for _, col := range columns {
		letter := strings.TrimSpace(col.value)
		if letter == "" {
			return fmt.Errorf("%s must be set", col.name)
		}
		for _, r := range letter {
			if r < 'A' || r > 'Z' {
				return fmt.Errorf("%s must be an uppercase column letter, got %q", col.name, col.value)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
