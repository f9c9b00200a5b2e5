package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	if err := c.normalizePlaceholders(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.Catalog = strings.TrimSpace(c.Paths.Catalog)
	if value, ok := os.LookupEnv("ISOMAGIC_CATALOG"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Catalog = strings.TrimSpace(value)
	}
	if c.Paths.Catalog == "" {
		c.Paths.Catalog = defaultCatalogPath
	}
	if c.Paths.Catalog, err = expandPath(c.Paths.Catalog); err != nil {
		return fmt.Errorf("paths.catalog: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	c.Matching.ExcludedPrefixes = NormalizePrefixes(c.Matching.ExcludedPrefixes)
}

// NormalizePrefixes trims, upper-cases, and de-duplicates region prefixes
// while keeping their order.
func NormalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	seen := make(map[string]struct{}, len(prefixes))
	for _, prefix := range prefixes {
		normalized := strings.ToUpper(strings.TrimSpace(prefix))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func (c *Config) normalizePlaceholders() error {
	var err error
	if strings.TrimSpace(c.Placeholders.Directory) == "" {
		c.Placeholders.Directory = defaultPlaceholderDirectory
	}
	if c.Placeholders.Directory, err = expandPath(c.Placeholders.Directory); err != nil {
		return fmt.Errorf("placeholders.directory: %w", err)
	}
	c.Placeholders.Extension = strings.TrimSpace(c.Placeholders.Extension)
	if c.Placeholders.Extension == "" {
		c.Placeholders.Extension = defaultPlaceholderExtension
	} else if !strings.HasPrefix(c.Placeholders.Extension, ".") {
		c.Placeholders.Extension = "." + c.Placeholders.Extension
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
