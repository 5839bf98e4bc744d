package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.BusyRetryInitialMS > c.Store.BusyRetryMaxDelayMS {
		return fmt.Errorf("store.busy_retry_initial_ms (%d) must not exceed store.busy_retry_max_ms (%d)",
			c.Store.BusyRetryInitialMS, c.Store.BusyRetryMaxDelayMS)
	}
	return nil
}

func (c *Config) validateIndex() error {
	if _, err := regexp.Compile(c.Index.CodePattern); err != nil {
		return fmt.Errorf("index.code_pattern: %w", err)
	}
	return nil
}

func (c *Config) validateScan() error {
	switch c.Scan.Mode {
	case ModeSequence, ModeVerification:
		return nil
	default:
		return fmt.Errorf("scan.mode must be %q or %q, got %q", ModeSequence, ModeVerification, c.Scan.Mode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
