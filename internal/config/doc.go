// Package config loads, normalizes, and validates isomagic configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ISOMAGIC_CATALOG. The Config type centralizes every knob the CLI needs so
// the catalog location, matching threshold, excluded region prefixes, and
// placeholder settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
