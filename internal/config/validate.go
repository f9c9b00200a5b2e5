package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validatePlaceholders(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Catalog) == "" {
		return errors.New("paths.catalog must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if err := ValidateThreshold(c.Matching.Threshold); err != nil {
		return fmt.Errorf("matching.threshold: %w", err)
	}
	for _, prefix := range c.Matching.ExcludedPrefixes {
		if strings.ContainsAny(prefix, " \t") {
			return fmt.Errorf("matching.excluded_prefixes: %q must not contain whitespace", prefix)
		}
	}
	return nil
}

// ValidateThreshold accepts similarity thresholds in (0, 1]. Zero is rejected
// because the matcher reads it as "use the default".
func ValidateThreshold(threshold float64) error {
	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("%v must be greater than 0 and at most 1", threshold)
	}
	return nil
}

func (c *Config) validatePlaceholders() error {
	if c.Placeholders.Count <= 0 {
		return errors.New("placeholders.count must be positive")
	}
	if strings.ContainsAny(c.Placeholders.Extension, `/\`) {
		return fmt.Errorf("placeholders.extension %q must not contain path separators", c.Placeholders.Extension)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
